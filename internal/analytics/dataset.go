// Package analytics computes the workplace wellbeing metrics shown on the HR dashboard.
//
// Every function takes an immutable Dataset snapshot and returns a fresh value. A result of 0
// means "insufficient data": the answer scale starts at 1, so 0 is never a real score.
package analytics

import "hurdl/internal/model"

// Schema describes which question columns a dataset carries and whether
// responses are timestamped.
type Schema struct {
	questions    map[string]struct{}
	hasTimestamp bool
}

// NewSchema builds a schema for the given question keys
func NewSchema(keys []string, hasTimestamp bool) Schema {
	s := Schema{questions: make(map[string]struct{}, len(keys)), hasTimestamp: hasTimestamp}
	for _, k := range keys {
		s.questions[k] = struct{}{}
	}
	return s
}

// FullSchema is the persisted layout: q_1..q_10 plus timestamp
func FullSchema() Schema {
	keys := append(append([]string{}, model.ScaleKeys...), model.TextKeys...)
	return NewSchema(keys, true)
}

// Has reports whether the question column is present
func (s Schema) Has(key string) bool {
	_, ok := s.questions[key]
	return ok
}

// HasTimestamp reports whether responses carry a usable timestamp
func (s Schema) HasTimestamp() bool {
	return s.hasTimestamp
}

// Available filters keys down to those present in the schema, keeping order
func (s Schema) Available(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Dataset is a snapshot of responses together with their schema.
// Functions in this package never modify Responses.
type Dataset struct {
	Schema    Schema
	Responses []*model.Response
}

// NewDataset wraps responses with a schema
func NewDataset(schema Schema, responses []*model.Response) Dataset {
	return Dataset{Schema: schema, Responses: responses}
}

// Len returns the number of responses
func (d Dataset) Len() int {
	return len(d.Responses)
}

// Where returns the responses matching keep, under the same schema
func (d Dataset) Where(keep func(*model.Response) bool) Dataset {
	out := make([]*model.Response, 0, len(d.Responses))
	for _, r := range d.Responses {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Dataset{Schema: d.Schema, Responses: out}
}

// InDepartment returns the responses of one department
func (d Dataset) InDepartment(department string) Dataset {
	return d.Where(func(r *model.Response) bool { return r.Department == department })
}

// Departments returns the distinct departments in first-appearance order
func (d Dataset) Departments() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.Responses {
		if _, ok := seen[r.Department]; ok {
			continue
		}
		seen[r.Department] = struct{}{}
		out = append(out, r.Department)
	}
	return out
}

// mean is a running average that ignores missing values
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) ok() bool {
	return m.n > 0
}

// value returns the average, or 0 when nothing was added
func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// rowMean averages the non-null scale answers of r over keys
func rowMean(r *model.Response, keys []string) (float64, bool) {
	var m mean
	for _, k := range keys {
		if v, ok := r.Scale(k); ok {
			m.add(float64(v))
		}
	}
	return m.value(), m.ok()
}
