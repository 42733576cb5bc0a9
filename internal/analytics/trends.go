package analytics

import (
	"context"
	"math"
	"time"

	"hurdl/internal/model"
)

// Alert thresholds on the absolute change of a metric. Departments use a
// stricter pair because their samples are small.
const (
	GlobalAlertThreshold     = 0.5
	GlobalHighThreshold      = 1.0
	DepartmentAlertThreshold = 0.8
	DepartmentHighThreshold  = 1.5
)

// Metric names used in alerts
const (
	MetricWellbeing = "Wellbeing Index"
	MetricSafety    = "Psychological Safety"
	MetricSentiment = "Sentiment Score"
)

// DepartmentMetric names the department-scoped wellbeing alert
func DepartmentMetric(department string) string {
	return department + " - Wellbeing"
}

// Period is an inclusive time range
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// CurrentPeriod spans the earliest to the latest response of ds
func CurrentPeriod(ds Dataset) (Period, bool) {
	if ds.Len() == 0 {
		return Period{}, false
	}
	p := Period{Start: ds.Responses[0].Timestamp, End: ds.Responses[0].Timestamp}
	for _, r := range ds.Responses[1:] {
		if r.Timestamp.Before(p.Start) {
			p.Start = r.Timestamp
		}
		if r.Timestamp.After(p.End) {
			p.End = r.Timestamp
		}
	}
	return p, true
}

// PreviousPeriod is the period of equal duration ending one second before current starts
func PreviousPeriod(current Period) Period {
	end := current.Start.Add(-time.Second)
	return Period{Start: end.Add(-current.End.Sub(current.Start)), End: end}
}

// DetectTrends compares current against the immediately preceding period of
// the same length taken from history. Alerts come in a fixed order: wellbeing,
// safety, sentiment, then department wellbeing in department order of current.
func DetectTrends(ctx context.Context, history, current Dataset, scorer Scorer) []model.TrendAlert {
	alerts := []model.TrendAlert{}
	if !history.Schema.HasTimestamp() {
		return alerts
	}
	cur, ok := CurrentPeriod(current)
	if !ok {
		return alerts
	}
	prevPeriod := PreviousPeriod(cur)
	previous := history.Where(func(r *model.Response) bool { return prevPeriod.Contains(r.Timestamp) })
	if previous.Len() == 0 {
		return alerts
	}

	globals := []struct {
		metric string
		calc   func(Dataset) float64
	}{
		{MetricWellbeing, WellbeingIndex},
		{MetricSafety, PsychologicalSafety},
		{MetricSentiment, func(ds Dataset) float64 { return AnalyzeSentiment(ctx, ds, scorer).Overall }},
	}
	for _, g := range globals {
		if a, ok := compare(g.metric, g.calc(current), g.calc(previous), GlobalAlertThreshold, GlobalHighThreshold); ok {
			alerts = append(alerts, a)
		}
	}

	for _, dept := range current.Departments() {
		deptCurrent := current.InDepartment(dept)
		deptPrevious := previous.InDepartment(dept)
		if deptCurrent.Len() == 0 || deptPrevious.Len() == 0 {
			continue
		}
		a, ok := compare(DepartmentMetric(dept), WellbeingIndex(deptCurrent), WellbeingIndex(deptPrevious),
			DepartmentAlertThreshold, DepartmentHighThreshold)
		if ok {
			a.Department = dept
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// compare builds an alert when the change reaches threshold
func compare(metric string, current, previous, threshold, high float64) (model.TrendAlert, bool) {
	change := current - previous
	if math.Abs(change) < threshold {
		return model.TrendAlert{}, false
	}
	a := model.TrendAlert{
		Metric:    metric,
		Current:   current,
		Previous:  previous,
		Change:    change,
		Direction: model.DirectionDown,
		Severity:  model.SeverityMedium,
	}
	// A zero baseline reports 0% rather than an infinite change.
	if previous != 0 {
		a.PercentChange = change / previous * 100
	}
	if current > previous {
		a.Direction = model.DirectionUp
	}
	if math.Abs(change) >= high {
		a.Severity = model.SeverityHigh
	}
	return a, true
}
