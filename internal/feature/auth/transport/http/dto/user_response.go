package dto

import (
	"time"

	"movie_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public view of a user. It has no password field.
type UserRes struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRes is returned by a successful login.
type LoginRes struct {
	User  UserRes `json:"user"`
	Token string  `json:"token"`
}

// ErrorRes is the body of every error response.
type ErrorRes struct {
	Error string `json:"error"`
}

// NewUserRes converts a user entity, dropping the password hash.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
