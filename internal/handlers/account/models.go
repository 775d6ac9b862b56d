package account

import "skillconnect/internal/models"

// RegisterInput is the signup request body. Worker profile fields are
// optional and ignored for customers.
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone,omitempty"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`

	Skills     []string `json:"skills,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Location   string   `json:"location,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserOutput wraps a user payload for register/login/profile responses.
type UserOutput struct {
	OK   bool         `json:"ok"`
	User *models.User `json:"user"`
}

type MessageOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
