package analytics

import (
	"sort"

	"hurdl/internal/model"
)

const dateLayout = "2006-01-02"

// ComputeBreakdowns builds the chart series of the dashboard tabs
func ComputeBreakdowns(ds Dataset) model.Breakdowns {
	return model.Breakdowns{
		WellbeingDaily:        DailyScores(ds, WellbeingQuestions),
		SafetyDaily:           DailyScores(ds, SafetyQuestions),
		WorkloadDaily:         DailyScores(ds, WorkloadQuestions),
		WellbeingByDepartment: DepartmentScores(ds, WellbeingQuestions),
		SafetyByDepartment:    DepartmentScores(ds, SafetyQuestions),
		WellbeingQuestions:    QuestionMeans(ds, WellbeingQuestions),
		SafetyQuestions:       QuestionMeans(ds, SafetyQuestions),
		ResponsesByDepartment: CountBy(ds, func(r *model.Response) string { return r.Department }),
		ResponsesByLocation:   CountBy(ds, func(r *model.Response) string { return r.Location }),
	}
}

// DailyScores averages per-response means by calendar day, oldest first
func DailyScores(ds Dataset, questions []string) []model.DailyScore {
	out := []model.DailyScore{}
	avail := ds.Schema.Available(questions)
	if len(avail) == 0 || !ds.Schema.HasTimestamp() {
		return out
	}
	days := make(map[string]*mean)
	for _, r := range ds.Responses {
		v, ok := rowMean(r, avail)
		if !ok {
			continue
		}
		d := r.Timestamp.Format(dateLayout)
		if days[d] == nil {
			days[d] = &mean{}
		}
		days[d].add(v)
	}
	for d, m := range days {
		out = append(out, model.DailyScore{Date: d, Score: m.value()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DepartmentScores is the two-level mean over questions per department
func DepartmentScores(ds Dataset, questions []string) []model.CategoryScore {
	avail := ds.Schema.Available(questions)
	if len(avail) == 0 {
		return []model.CategoryScore{}
	}
	return groupScores(ds, avail, GroupDepartment, func(r *model.Response) string { return r.Department })
}

// QuestionMeans is the plain column mean of each available question
func QuestionMeans(ds Dataset, questions []string) []model.QuestionScore {
	out := []model.QuestionScore{}
	for _, q := range ds.Schema.Available(questions) {
		var m mean
		for _, r := range ds.Responses {
			if v, ok := r.Scale(q); ok {
				m.add(float64(v))
			}
		}
		if m.ok() {
			out = append(out, model.QuestionScore{Question: q, Mean: m.value()})
		}
	}
	return out
}

// CountBy counts responses per group, largest group first
func CountBy(ds Dataset, group func(*model.Response) string) []model.CategoryCount {
	index := make(map[string]int)
	out := []model.CategoryCount{}
	for _, r := range ds.Responses {
		g := group(r)
		if i, ok := index[g]; ok {
			out[i].Count++
			continue
		}
		index[g] = len(out)
		out = append(out, model.CategoryCount{Category: g, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
