package echoapi

import "github.com/trezcool/darasa/core/user"

type TokenResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

// AddTeacherRequest grants course-teacher rights to another user.
type AddTeacherRequest struct {
	UserID int `json:"user_id" validate:"required"`
}
