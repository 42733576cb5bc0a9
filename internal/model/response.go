package model

import "time"

// Question keys of the weekly check-in. They double as persisted column names.
const (
	Q1  = "q_1"
	Q2  = "q_2"
	Q3  = "q_3"
	Q4  = "q_4"
	Q5  = "q_5"
	Q6  = "q_6"
	Q7  = "q_7"
	Q8  = "q_8"
	Q9  = "q_9"
	Q10 = "q_10"
)

// AllValue is the filter value that matches every department or location
const AllValue = "All"

// Response is one employee's weekly check-in. Responses are insert-only.
type Response struct {
	ResponseID string    `json:"response_id" bson:"_id"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Department string    `json:"department" bson:"department"`
	Location   string    `json:"location" bson:"location"`

	// Scale answers 1-5
	Q1 *int `json:"q_1" bson:"q_1,omitempty"`
	Q2 *int `json:"q_2" bson:"q_2,omitempty"`
	Q3 *int `json:"q_3" bson:"q_3,omitempty"`
	Q4 *int `json:"q_4" bson:"q_4,omitempty"`
	Q5 *int `json:"q_5" bson:"q_5,omitempty"`
	Q6 *int `json:"q_6" bson:"q_6,omitempty"`
	Q7 *int `json:"q_7" bson:"q_7,omitempty"`
	Q8 *int `json:"q_8" bson:"q_8,omitempty"`

	// Free text answers
	Q9  *string `json:"q_9" bson:"q_9,omitempty"`
	Q10 *string `json:"q_10" bson:"q_10,omitempty"`
}

// ScaleKeys lists the scale question keys in column order
var ScaleKeys = []string{Q1, Q2, Q3, Q4, Q5, Q6, Q7, Q8}

// TextKeys lists the free text question keys in column order
var TextKeys = []string{Q9, Q10}

func (r *Response) scaleField(key string) **int {
	switch key {
	case Q1:
		return &r.Q1
	case Q2:
		return &r.Q2
	case Q3:
		return &r.Q3
	case Q4:
		return &r.Q4
	case Q5:
		return &r.Q5
	case Q6:
		return &r.Q6
	case Q7:
		return &r.Q7
	case Q8:
		return &r.Q8
	}
	return nil
}

func (r *Response) textField(key string) **string {
	switch key {
	case Q9:
		return &r.Q9
	case Q10:
		return &r.Q10
	}
	return nil
}

// Scale returns the scale answer stored under key, if any
func (r *Response) Scale(key string) (int, bool) {
	f := r.scaleField(key)
	if f == nil || *f == nil {
		return 0, false
	}
	return **f, true
}

// Text returns the free text answer stored under key, if any
func (r *Response) Text(key string) (string, bool) {
	f := r.textField(key)
	if f == nil || *f == nil {
		return "", false
	}
	return **f, true
}

// SetScale stores a scale answer. Unknown keys are ignored.
func (r *Response) SetScale(key string, v int) {
	if f := r.scaleField(key); f != nil {
		*f = &v
	}
}

// SetText stores a free text answer. Unknown keys are ignored.
func (r *Response) SetText(key string, s string) {
	if f := r.textField(key); f != nil {
		*f = &s
	}
}

// ResponseFilter selects responses from the store. Zero values match everything.
type ResponseFilter struct {
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Department string     `json:"department,omitempty"`
	Location   string     `json:"location,omitempty"`
}

// DepartmentFilter returns the department to filter on, or "" for all
func (f ResponseFilter) DepartmentFilter() string {
	if f.Department == AllValue {
		return ""
	}
	return f.Department
}

// LocationFilter returns the location to filter on, or "" for all
func (f ResponseFilter) LocationFilter() string {
	if f.Location == AllValue {
		return ""
	}
	return f.Location
}

// Matches reports whether r satisfies the filter. Bounds are inclusive.
func (f ResponseFilter) Matches(r *Response) bool {
	if f.Start != nil && r.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.Timestamp.After(*f.End) {
		return false
	}
	if d := f.DepartmentFilter(); d != "" && r.Department != d {
		return false
	}
	if l := f.LocationFilter(); l != "" && r.Location != l {
		return false
	}
	return true
}
