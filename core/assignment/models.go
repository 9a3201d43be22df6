package assignment

import (
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core"
)

// Statuses
const (
	StatusPending = "pending"
	StatusScored  = "scored"

	// StatusAll is the filter value that matches every status.
	StatusAll = "all"
)

// Score bounds (inclusive)
const (
	ScoreMin = 0
	ScoreMax = 100
)

// Assignment is one submitted piece of student work. It is created by the
// submission side of the system; this portal only reads it and scores it.
// An absent score means the assignment is still pending review.
type Assignment struct {
	ID          string      `json:"id"`
	UserName    null.String `json:"user_name"`
	UserEmail   null.String `json:"user_email"`
	Title       null.String `json:"title"`
	Content     null.String `json:"content"` // opaque rich text
	SubmittedAt null.Time   `json:"submitted_at"`
	Status      string      `json:"status"`
	Score       null.Int    `json:"score"`
	CreatedAt   time.Time   `json:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at"` // UTC
}

// DisplayTitle falls back to a label derived from the ID for untitled work.
func (a Assignment) DisplayTitle() string {
	if a.Title.Valid && a.Title.String != "" {
		return a.Title.String
	}
	id := a.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Assignment " + id
}

func (a Assignment) IsScored() bool {
	return a.Status == StatusScored
}

// EditAssignment defines what an admin may change on a submitted assignment.
// Score arrives as the raw form input: blank clears the score, anything else
// must parse as an integer within ScoreMin..ScoreMax.
type EditAssignment struct {
	Content string `json:"content"`
	Score   string `json:"score"`

	score null.Int // set by Validate
}

var errInvalidScore = "score must be a whole number between 0 and 100"

func (ea *EditAssignment) Validate() error {
	ea.Content = core.CleanString(ea.Content)

	raw := core.CleanString(ea.Score)
	if raw == "" {
		ea.score = null.Int{}
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < ScoreMin || n > ScoreMax {
		return core.NewValidationError(nil, core.FieldError{Field: "score", Error: errInvalidScore})
	}
	ea.score = null.IntFrom(n)
	return nil
}

type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}

type SortKey string

// Sortable columns of the list screen.
const (
	SortByName        SortKey = "name"
	SortBySubmittedAt SortKey = "submitted_at"
	SortByStatus      SortKey = "status"
	SortByScore       SortKey = "score"
)

type Sort struct {
	Key        SortKey
	Descending bool
}

// Toggle applies the column-header contract: toggling the active key flips
// the direction; selecting a new key starts ascending.
func (s *Sort) Toggle(key SortKey) {
	if s.Key == key {
		s.Descending = !s.Descending
		return
	}
	s.Key = key
	s.Descending = false
}
