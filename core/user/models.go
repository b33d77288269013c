package user

import (
	"strings"
	"time"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

var AllRoles = []string{RoleStudent, RoleTeacher}

type User struct {
	ID        int       `json:"id" db:"id"`
	ChatID    string    `json:"chat_id" db:"chat_id"` // external chat identity; unique
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// NewUser contains the chat profile presented on first contact.
type NewUser struct {
	ChatID    string `json:"chat_id" validate:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (nu *NewUser) Validate() error {
	nu.ChatID = core.CleanString(nu.ChatID)
	nu.Username = core.CleanString(nu.Username)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	return core.Validate.Struct(nu)
}

// UpdateRole defines the payload of a role change.
type UpdateRole struct {
	Role string `json:"role" validate:"required,role"`
}

func (ur *UpdateRole) Validate() error {
	ur.Role = core.CleanString(ur.Role, true /* lower */)
	return core.Validate.Struct(ur)
}
