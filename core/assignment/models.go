package assignment

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

const DefaultMaxPoints = 100

type Assignment struct {
	ID          int       `json:"id" db:"id"`
	CourseID    int       `json:"course_id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     null.Time `json:"due_date" db:"due_date"`
	MaxPoints   int       `json:"max_points" db:"max_points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
}

// Submission is a student's work for an assignment; unique per
// (assignment, user). A resubmission replaces the previous row wholesale,
// clearing any grade.
type Submission struct {
	ID           int         `json:"id" db:"id"`
	AssignmentID int         `json:"assignment_id" db:"assignment_id"`
	UserID       int         `json:"user_id" db:"user_id"`
	Content      string      `json:"content" db:"content"`
	FileRef      string      `json:"file_ref" db:"file_ref"` // blob store reference; may be empty
	SubmittedAt  time.Time   `json:"submitted_at" db:"submitted_at"`
	Grade        null.Int    `json:"grade" db:"grade"`
	Feedback     null.String `json:"feedback" db:"feedback"`
	GradedAt     null.Time   `json:"graded_at" db:"graded_at"`
}

func (s Submission) IsGraded() bool { return s.Grade.Valid }

// StudentSubmission is a Submission joined with its submitter's identity,
// for teacher review.
type StudentSubmission struct {
	Submission
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	CourseID    int       `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     null.Time `json:"due_date"`
	MaxPoints   int       `json:"max_points" validate:"omitempty,min=1"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return core.Validate.Struct(na)
}

// NewSubmission is the submit payload; at least one of content or file
// must be provided.
type NewSubmission struct {
	Content string           `json:"content"`
	File    *core.FileUpload `json:"-"`
}

func (ns *NewSubmission) Validate() error {
	ns.Content = core.CleanString(ns.Content)
	if ns.Content == "" && ns.File == nil {
		return core.NewValidationError(nil,
			core.FieldError{Field: "content", Error: "one of content or file is required"},
			core.FieldError{Field: "file", Error: "one of content or file is required"},
		)
	}
	return nil
}

// GradeSubmission is the grading payload. The upper bound is checked
// against the assignment's max points at service level.
type GradeSubmission struct {
	Grade    *int   `json:"grade" validate:"required,min=0"`
	Feedback string `json:"feedback"`
}

func (gs *GradeSubmission) Validate() error {
	gs.Feedback = core.CleanString(gs.Feedback)
	return core.Validate.Struct(gs)
}
