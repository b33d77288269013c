package course

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type Course struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	AccessCode  string    `json:"access_code" db:"access_code"` // 8 chars, uppercase, globally unique
	TeacherID   int       `json:"teacher_id" db:"teacher_id"`  // owning teacher
	CreatedAt   time.Time `json:"created_at" db:"created_at"`  // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// JoinCourse is the join-by-code payload.
type JoinCourse struct {
	AccessCode string `json:"access_code" validate:"required,accesscode"`
}

func (jc *JoinCourse) Validate() error {
	jc.AccessCode = core.CleanString(jc.AccessCode)
	return core.Validate.Struct(jc)
}
