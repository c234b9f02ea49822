package dto

import (
	"time"

	"github.com/spec-kit/supplier-service/internal/domain"
)

// RegisterRequest payload for new accounts. A role field is accepted for
// compatibility but ignored on the public endpoint; only the admin create
// path honors it.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ProfileUpdateRequest payload for self-service profile updates. The avatar
// file travels as the multipart field "avatar".
type ProfileUpdateRequest struct {
	Username *string `json:"username" form:"username"`
}

// AdminUserUpdateRequest payload for administrative account updates.
type AdminUserUpdateRequest struct {
	Username *string `json:"username" form:"username"`
	Password *string `json:"password" form:"password"`
	Role     *string `json:"role" form:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserView is the canonical outward representation of an account. The
// password hash never leaves the service.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserView maps a domain user to its canonical view.
func NewUserView(user *domain.User) UserView {
	return UserView{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Avatar:    user.AvatarPath,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserViews maps a slice of users.
func NewUserViews(users []*domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, NewUserView(user))
	}
	return views
}
