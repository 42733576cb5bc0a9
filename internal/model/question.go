package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeHeader QuestionType = "header" // Section title, not answered
	QuestionTypeScale  QuestionType = "scale"  // 1-5 slider
	QuestionTypeText   QuestionType = "text"   // Free text
)

// Scale bounds and the slider default
const (
	ScaleMin     = 1
	ScaleMax     = 5
	ScaleDefault = 3
)

// Question is one entry of the check-in question list
type Question struct {
	ID   string       `json:"id" yaml:"id"`     // e.g. "wellbeing_header", "q_1"
	Text string       `json:"text" yaml:"text"` // Prompt or section title
	Type QuestionType `json:"type" yaml:"type"`
}

// IsHeader reports whether q is a section header
func (q Question) IsHeader() bool {
	return q.Type == QuestionTypeHeader
}

// QuestionSet is the fixed check-in survey
type QuestionSet struct {
	Questions   []Question `json:"questions" yaml:"questions"`
	Departments []string   `json:"departments" yaml:"departments"`
	Locations   []string   `json:"locations" yaml:"locations"`
}

// Answerable returns the non-header questions in order
func (s *QuestionSet) Answerable() []Question {
	out := make([]Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		if !q.IsHeader() {
			out = append(out, q)
		}
	}
	return out
}

// Keys returns the ids of the answerable questions
func (s *QuestionSet) Keys() []string {
	qs := s.Answerable()
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.ID
	}
	return keys
}

// HasDepartment reports whether d is one of the configured departments
func (s *QuestionSet) HasDepartment(d string) bool {
	return contains(s.Departments, d)
}

// HasLocation reports whether l is one of the configured locations
func (s *QuestionSet) HasLocation(l string) bool {
	return contains(s.Locations, l)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
