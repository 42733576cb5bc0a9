package analytics

import (
	"context"
	"time"

	"hurdl/internal/model"
)

var t0 = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return t0.AddDate(0, 0, n)
}

// scaleResp builds a response with the given scale answers in question order
// starting at q_1. A zero value leaves the answer null.
func scaleResp(dept string, ts time.Time, values ...int) *model.Response {
	r := &model.Response{ResponseID: dept + ts.String(), Timestamp: ts, Department: dept, Location: "HQ"}
	for i, v := range values {
		if v != 0 && i < len(model.ScaleKeys) {
			r.SetScale(model.ScaleKeys[i], v)
		}
	}
	return r
}

func textResp(dept string, ts time.Time, q9, q10 string) *model.Response {
	r := &model.Response{ResponseID: dept + ts.String() + q9, Timestamp: ts, Department: dept, Location: "Remote"}
	if q9 != "" {
		r.SetText(model.Q9, q9)
	}
	if q10 != "" {
		r.SetText(model.Q10, q10)
	}
	return r
}

func full(rs ...*model.Response) Dataset {
	return NewDataset(FullSchema(), rs)
}

func neutral() Scorer {
	return ScorerFunc(func(ctx context.Context, text string) (float64, error) { return 0, nil })
}
