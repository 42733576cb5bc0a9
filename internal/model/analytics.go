package model

import "time"

// WordCount is a word with its frequency
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentSummary is the sentiment and topic analysis of the free text answers
type SentimentSummary struct {
	Overall     float64            `json:"overall"`     // 1-5, 0 = insufficient data
	Questions   map[string]float64 `json:"questions"`   // question key -> score
	CommonWords []WordCount        `json:"commonWords"` // top 10, most frequent first
	Topics      map[string]int     `json:"topics"`      // topic -> mention count
}

// CategoryScore is an average score for a department or location
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Type     string  `json:"type"` // "department" or "location"
}

// WorkloadSummary holds workload scores grouped by department and location
type WorkloadSummary struct {
	ByDepartment []CategoryScore `json:"byDepartment"`
	ByLocation   []CategoryScore `json:"byLocation"`
	Overall      float64         `json:"overall"`
}

// Alert directions and severities
const (
	DirectionUp   = "up"
	DirectionDown = "down"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// TrendAlert is a metric change between two adjacent periods of equal length
type TrendAlert struct {
	Metric        string  `json:"metric"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percentChange"`
	Direction     string  `json:"direction"`
	Severity      string  `json:"severity"`
	Department    string  `json:"department,omitempty"`
}

// DailyScore is the average score of responses submitted on one day
type DailyScore struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Score float64 `json:"score"`
}

// QuestionScore is the column-wise mean of one scale question
type QuestionScore struct {
	Question string  `json:"question"`
	Mean     float64 `json:"mean"`
}

// CategoryCount is the number of responses in one group
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Breakdowns are the chart series behind the dashboard tabs
type Breakdowns struct {
	WellbeingDaily        []DailyScore    `json:"wellbeingDaily"`
	SafetyDaily           []DailyScore    `json:"safetyDaily"`
	WorkloadDaily         []DailyScore    `json:"workloadDaily"`
	WellbeingByDepartment []CategoryScore `json:"wellbeingByDepartment"`
	SafetyByDepartment    []CategoryScore `json:"safetyByDepartment"`
	WellbeingQuestions    []QuestionScore `json:"wellbeingQuestions"`
	SafetyQuestions       []QuestionScore `json:"safetyQuestions"`
	ResponsesByDepartment []CategoryCount `json:"responsesByDepartment"`
	ResponsesByLocation   []CategoryCount `json:"responsesByLocation"`
}

// MetricCard is a headline metric with its band label
type MetricCard struct {
	Value float64 `json:"value"`
	Band  string  `json:"band,omitempty"` // empty when Value is the 0 sentinel
}

// DashboardQuery is the HR dashboard filter
type DashboardQuery struct {
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Department string     `json:"department,omitempty"`
	Location   string     `json:"location,omitempty"`
}

// FilterOptions are the selectable dashboard filter values
type FilterOptions struct {
	Departments []string   `json:"departments"`
	Locations   []string   `json:"locations"`
	MinDate     *time.Time `json:"minDate,omitempty"`
	MaxDate     *time.Time `json:"maxDate,omitempty"`
}

// Dashboard is everything the HR dashboard renders for one query
type Dashboard struct {
	Query               DashboardQuery   `json:"query"`
	Options             FilterOptions    `json:"options"`
	ResponseCount       int              `json:"responseCount"`
	TotalResponses      int              `json:"totalResponses"`
	Degraded            bool             `json:"degraded"` // store was unavailable
	Wellbeing           MetricCard       `json:"wellbeing"`
	PsychologicalSafety MetricCard       `json:"psychologicalSafety"`
	Sentiment           SentimentSummary `json:"sentiment"`
	SentimentCard       MetricCard       `json:"sentimentCard"`
	Workload            WorkloadSummary  `json:"workload"`
	Trends              []TrendAlert     `json:"trends"`
	Breakdowns          Breakdowns       `json:"breakdowns"`
	GeneratedAt         time.Time        `json:"generatedAt"`
}
