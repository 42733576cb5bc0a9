package analytics

import (
	"sort"

	"hurdl/internal/model"
)

// Question groups. q_3 and q_7 are deliberately reused as workload indicators.
var (
	WellbeingQuestions = []string{model.Q1, model.Q2, model.Q3, model.Q4}
	SafetyQuestions    = []string{model.Q5, model.Q6, model.Q7, model.Q8}
	WorkloadQuestions  = []string{model.Q3, model.Q7}
	TextQuestions      = []string{model.Q9, model.Q10}
)

// Grouping types used in CategoryScore.Type
const (
	GroupDepartment = "department"
	GroupLocation   = "location"
)

// WellbeingIndex is the mean over responses of each response's mean over q_1..q_4.
func WellbeingIndex(ds Dataset) float64 {
	return twoLevelMean(ds, WellbeingQuestions)
}

// PsychologicalSafety is the mean over responses of each response's mean over q_5..q_8.
func PsychologicalSafety(ds Dataset) float64 {
	return twoLevelMean(ds, SafetyQuestions)
}

// twoLevelMean averages per-response means. Responses without any value for
// the available questions are skipped; absent questions yield 0.
func twoLevelMean(ds Dataset, questions []string) float64 {
	avail := ds.Schema.Available(questions)
	if len(avail) == 0 {
		return 0
	}
	var m mean
	for _, r := range ds.Responses {
		if v, ok := rowMean(r, avail); ok {
			m.add(v)
		}
	}
	return m.value()
}

// WorkloadScores groups the per-response workload (mean of q_3 and q_7) by
// department and location.
func WorkloadScores(ds Dataset) model.WorkloadSummary {
	summary := model.WorkloadSummary{
		ByDepartment: []model.CategoryScore{},
		ByLocation:   []model.CategoryScore{},
	}
	avail := ds.Schema.Available(WorkloadQuestions)
	if len(avail) == 0 {
		return summary
	}

	summary.ByDepartment = groupScores(ds, avail, GroupDepartment, func(r *model.Response) string { return r.Department })
	summary.ByLocation = groupScores(ds, avail, GroupLocation, func(r *model.Response) string { return r.Location })
	summary.Overall = twoLevelMean(ds, avail)
	return summary
}

// groupScores computes the two-level mean per category, sorted by category
// name. Categories without a single scored response are left out.
func groupScores(ds Dataset, questions []string, kind string, category func(*model.Response) string) []model.CategoryScore {
	groups := make(map[string]*mean)
	for _, r := range ds.Responses {
		v, ok := rowMean(r, questions)
		if !ok {
			continue
		}
		key := category(r)
		g, exists := groups[key]
		if !exists {
			g = &mean{}
			groups[key] = g
		}
		g.add(v)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.CategoryScore, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.CategoryScore{Category: k, Score: groups[k].value(), Type: kind})
	}
	return out
}
