package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hurdl/internal/model"
)

func q1Only(rs ...*model.Response) Dataset {
	return NewDataset(NewSchema([]string{model.Q1}, true), rs)
}

func TestPreviousPeriod(t *testing.T) {
	cur := Period{Start: day(10), End: day(14)}
	prev := PreviousPeriod(cur)
	assert.Equal(t, day(10).Add(-time.Second), prev.End)
	assert.Equal(t, day(6).Add(-time.Second), prev.Start)
	assert.True(t, prev.Contains(prev.Start))
	assert.True(t, prev.Contains(prev.End))
	assert.False(t, prev.Contains(day(10)))
}

func TestDetectTrends_EmptyCurrent(t *testing.T) {
	history := full(scaleResp("HR", day(1), 5))
	assert.Empty(t, DetectTrends(context.Background(), history, full(), neutral()))
}

func TestDetectTrends_NoTimestampColumn(t *testing.T) {
	rs := []*model.Response{scaleResp("HR", day(8), 1), scaleResp("HR", day(12), 5)}
	history := NewDataset(NewSchema(model.ScaleKeys, false), rs)
	alerts := DetectTrends(context.Background(), history, full(rs[1]), neutral())
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestDetectTrends_NoPreviousData(t *testing.T) {
	current := []*model.Response{scaleResp("HR", day(10), 5), scaleResp("HR", day(14), 5)}
	history := full(append(current, scaleResp("HR", t0, 1))...)
	assert.Empty(t, DetectTrends(context.Background(), history, full(current...), neutral()))
}

func TestDetectTrends_MediumWellbeingRise(t *testing.T) {
	previous := []*model.Response{
		scaleResp("Sales", day(8), 3), scaleResp("Sales", day(8), 3), scaleResp("Sales", day(8), 4),
		scaleResp("Sales", day(8), 4), scaleResp("Sales", day(8), 3),
	}
	current := []*model.Response{
		scaleResp("Sales", day(10), 4), scaleResp("Sales", day(11), 4), scaleResp("Sales", day(12), 4),
		scaleResp("Sales", day(13), 4), scaleResp("Sales", day(14), 4),
	}
	// Outside the previous window; would pull the baseline down if counted.
	old := scaleResp("Sales", t0, 1)
	history := q1Only(append(append([]*model.Response{old}, previous...), current...)...)

	alerts := DetectTrends(context.Background(), history, q1Only(current...), neutral())

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, MetricWellbeing, a.Metric)
	assert.InDelta(t, 4.0, a.Current, 1e-9)
	assert.InDelta(t, 3.4, a.Previous, 1e-9)
	assert.InDelta(t, 0.6, a.Change, 1e-9)
	assert.InDelta(t, 17.647, a.PercentChange, 1e-3)
	assert.Equal(t, model.DirectionUp, a.Direction)
	assert.Equal(t, model.SeverityMedium, a.Severity)
	assert.Empty(t, a.Department)
}

func TestDetectTrends_HighRiseWithDepartmentAlert(t *testing.T) {
	previous := []*model.Response{
		scaleResp("Sales", day(8), 3), scaleResp("Sales", day(8), 3), scaleResp("Sales", day(8), 4),
		scaleResp("Sales", day(8), 4), scaleResp("Sales", day(8), 3),
	}
	current := []*model.Response{
		scaleResp("Sales", day(10), 5), scaleResp("Sales", day(11), 5), scaleResp("Sales", day(12), 5),
		scaleResp("Sales", day(13), 4), scaleResp("Sales", day(14), 4),
	}
	history := q1Only(append(previous, current...)...)

	alerts := DetectTrends(context.Background(), history, q1Only(current...), neutral())

	require.Len(t, alerts, 2)
	assert.Equal(t, MetricWellbeing, alerts[0].Metric)
	assert.Equal(t, model.SeverityHigh, alerts[0].Severity)
	assert.InDelta(t, 1.2, alerts[0].Change, 1e-9)

	assert.Equal(t, DepartmentMetric("Sales"), alerts[1].Metric)
	assert.Equal(t, "Sales", alerts[1].Department)
	assert.Equal(t, model.SeverityMedium, alerts[1].Severity)
}

func TestDetectTrends_DepartmentThresholdsAndOrder(t *testing.T) {
	var previous []*model.Response
	for _, d := range []string{"A", "B", "C"} {
		previous = append(previous, scaleResp(d, day(8), 3))
	}
	current := []*model.Response{
		scaleResp("C", day(10), 5), scaleResp("C", day(10), 5), scaleResp("C", day(10), 5),
		scaleResp("C", day(10), 4), scaleResp("C", day(10), 4),
		scaleResp("B", day(12), 4), scaleResp("B", day(12), 4), scaleResp("B", day(12), 4),
		scaleResp("B", day(12), 3), scaleResp("B", day(12), 3),
		scaleResp("A", day(14), 4), scaleResp("A", day(14), 4), scaleResp("A", day(14), 4),
		scaleResp("A", day(14), 4), scaleResp("A", day(14), 3, 4),
	}
	ds := NewDataset(NewSchema([]string{model.Q1, model.Q2}, true), append(previous, current...))
	cur := NewDataset(ds.Schema, current)

	alerts := DetectTrends(context.Background(), ds, cur, neutral())

	var metrics []string
	for _, a := range alerts {
		metrics = append(metrics, a.Metric)
	}
	assert.Equal(t, []string{MetricWellbeing, DepartmentMetric("C"), DepartmentMetric("A")}, metrics)

	// C rose by 1.6, A by 0.9 and B's 0.6 stays under the department threshold.
	assert.Equal(t, model.SeverityHigh, alerts[1].Severity)
	assert.InDelta(t, 1.6, alerts[1].Change, 1e-9)
	assert.Equal(t, model.SeverityMedium, alerts[2].Severity)
	assert.InDelta(t, 0.9, alerts[2].Change, 1e-9)
}

func TestDetectTrends_SentimentAlert(t *testing.T) {
	scorer := fixedScorer(map[string]float64{"bad": -1, "good": 1})
	previous := textResp("HR", day(12).Add(-time.Second), "bad", "")
	current := textResp("HR", day(12), "good", "")
	schema := NewSchema([]string{model.Q9}, true)
	history := NewDataset(schema, []*model.Response{previous, current})

	alerts := DetectTrends(context.Background(), history, NewDataset(schema, []*model.Response{current}), scorer)

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, MetricSentiment, a.Metric)
	assert.Equal(t, 5.0, a.Current)
	assert.Equal(t, 1.0, a.Previous)
	assert.Equal(t, 4.0, a.Change)
	assert.Equal(t, 400.0, a.PercentChange)
	assert.Equal(t, model.SeverityHigh, a.Severity)
}

func TestDetectTrends_ZeroBaselineReportsZeroPercent(t *testing.T) {
	// The previous response only answers safety, so its wellbeing is 0.
	previous := scaleResp("HR", day(12).Add(-time.Second), 0, 0, 0, 0, 4)
	current := scaleResp("HR", day(12), 4, 0, 0, 0, 4)
	history := full(previous, current)

	alerts := DetectTrends(context.Background(), history, full(current), neutral())

	require.NotEmpty(t, alerts)
	a := alerts[0]
	assert.Equal(t, MetricWellbeing, a.Metric)
	assert.Equal(t, 4.0, a.Change)
	assert.Equal(t, 0.0, a.PercentChange)
	assert.Equal(t, model.DirectionUp, a.Direction)
}

func TestDetectTrends_PreviousWindowIsInclusive(t *testing.T) {
	current := []*model.Response{scaleResp("HR", day(10), 5), scaleResp("HR", day(12), 5)}
	edgeStart := scaleResp("HR", day(8).Add(-time.Second), 1)
	edgeEnd := scaleResp("HR", day(10).Add(-time.Second), 1)
	tooEarly := scaleResp("HR", day(8).Add(-2*time.Second), 5)
	history := q1Only(append([]*model.Response{edgeStart, edgeEnd, tooEarly}, current...)...)

	alerts := DetectTrends(context.Background(), history, q1Only(current...), neutral())

	require.NotEmpty(t, alerts)
	assert.Equal(t, 1.0, alerts[0].Previous)
}

func TestDetectTrends_Decline(t *testing.T) {
	history := q1Only(scaleResp("HR", day(12).Add(-time.Second), 5), scaleResp("HR", day(12), 4))
	alerts := DetectTrends(context.Background(), history, q1Only(scaleResp("HR", day(12), 4)), neutral())

	require.Len(t, alerts, 2)
	assert.Equal(t, model.DirectionDown, alerts[0].Direction)
	assert.Equal(t, model.SeverityHigh, alerts[0].Severity)
	assert.InDelta(t, -20.0, alerts[0].PercentChange, 1e-9)
	assert.Equal(t, DepartmentMetric("HR"), alerts[1].Metric)
	assert.Equal(t, model.SeverityMedium, alerts[1].Severity)
}
