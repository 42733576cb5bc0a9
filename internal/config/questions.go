package config

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"

	"hurdl/internal/model"
)

//go:embed questions.yaml
var questionsYAML []byte

// ErrInvalidQuestionSet is returned when a question set fails validation
var ErrInvalidQuestionSet = errors.New("invalid question set")

// LoadQuestions returns the embedded check-in question set
func LoadQuestions() (*model.QuestionSet, error) {
	return ParseQuestions(questionsYAML)
}

// ParseQuestions decodes and validates a question set
func ParseQuestions(data []byte) (*model.QuestionSet, error) {
	var set model.QuestionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode question set: %w", err)
	}
	if len(set.Answerable()) == 0 {
		return nil, fmt.Errorf("%w: no answerable questions", ErrInvalidQuestionSet)
	}
	seen := make(map[string]bool, len(set.Questions))
	for _, q := range set.Questions {
		switch q.Type {
		case model.QuestionTypeHeader:
		case model.QuestionTypeScale:
			if !inList(model.ScaleKeys, q.ID) {
				return nil, fmt.Errorf("%w: %q is not a scale column", ErrInvalidQuestionSet, q.ID)
			}
		case model.QuestionTypeText:
			if !inList(model.TextKeys, q.ID) {
				return nil, fmt.Errorf("%w: %q is not a text column", ErrInvalidQuestionSet, q.ID)
			}
		default:
			return nil, fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidQuestionSet, q.ID, q.Type)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidQuestionSet, q.ID)
		}
		seen[q.ID] = true
	}
	if len(set.Departments) == 0 || len(set.Locations) == 0 {
		return nil, fmt.Errorf("%w: departments and locations are required", ErrInvalidQuestionSet)
	}
	return &set, nil
}

func inList(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
