package material

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Material is a course file shared by a teacher (slides, readings, ...).
type Material struct {
	ID         int       `json:"id" db:"id"`
	CourseID   int       `json:"course_id" db:"course_id"`
	Title      string    `json:"title" db:"title"`
	FileRef    string    `json:"file_ref" db:"file_ref"` // blob store reference
	FileType   string    `json:"file_type" db:"file_type"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"` // UTC
}

// NewMaterial contains information needed to upload a course material;
// the file itself is mandatory.
type NewMaterial struct {
	CourseID int              `json:"course_id" validate:"required"`
	Title    string           `json:"title" validate:"required"`
	File     *core.FileUpload `json:"-"`
}

func (nm *NewMaterial) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	if err := core.Validate.Struct(nm); err != nil {
		return err
	}
	if nm.File == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	return nil
}
