package announcement

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type Announcement struct {
	ID        int       `json:"id" db:"id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

type Comment struct {
	ID             int       `json:"id" db:"id"`
	AnnouncementID int       `json:"announcement_id" db:"announcement_id"`
	UserID         int       `json:"user_id" db:"user_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
}

// AuthorComment is a Comment joined with its author's identity.
type AuthorComment struct {
	Comment
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// NewAnnouncement contains information needed to post an announcement.
type NewAnnouncement struct {
	CourseID int    `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	return core.Validate.Struct(na)
}

// NewComment contains information needed to comment on an announcement.
type NewComment struct {
	AnnouncementID int    `json:"announcement_id" validate:"required"`
	Content        string `json:"content" validate:"required"`
}

func (nc *NewComment) Validate() error {
	nc.Content = core.CleanString(nc.Content)
	return core.Validate.Struct(nc)
}
