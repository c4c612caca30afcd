package analyses

import (
	"time"
)

// ID tipe untuk Record
type RecordID string

// Suggestion value object: one concrete improvement the analyzer proposed.
type Suggestion struct {
	Area       string `json:"area"`
	Suggestion string `json:"suggestion"`
	Example    string `json:"example,omitempty"`
}

// Result is the analyzer output for a single résumé.
type Result struct {
	Score       int          `json:"score"`
	Analysis    string       `json:"analysis"`
	Strengths   []string     `json:"strengths"`
	Weaknesses  []string     `json:"weaknesses"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Aggregate Root: Record
// One per completed analysis that reached persistence. Immutable once
// created; there is no update or delete.
type Record struct {
	ID          RecordID     `json:"id"`
	UserID      string       `json:"user_id"`
	FileName    string       `json:"file_name"`
	FileURL     string       `json:"file_url,omitempty"`
	JobTitle    *string      `json:"job_title"`
	Industry    *string      `json:"industry"`
	Score       int          `json:"score"`
	Analysis    string       `json:"analysis"`
	Strengths   []string     `json:"strengths"`
	Weaknesses  []string     `json:"weaknesses"`
	Suggestions []Suggestion `json:"suggestions"`
	CreatedAt   time.Time    `json:"created_at"`
}
