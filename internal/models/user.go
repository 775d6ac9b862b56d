package models

import "time"

// Role distinguishes customers requesting services from workers offering them.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleWorker
}

type User struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone,omitempty" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`

	// Worker profile fields
	Skills        []string `json:"skills,omitempty" db:"skills"`
	Bio           string   `json:"bio,omitempty" db:"bio"`
	Experience    string   `json:"experience,omitempty" db:"experience"`
	Location      string   `json:"location,omitempty" db:"location"`
	Rating        float64  `json:"rating" db:"rating"`
	CompletedJobs int      `json:"completedJobs" db:"completed_jobs"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicProfile strips credentials for API responses.
type PublicProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
