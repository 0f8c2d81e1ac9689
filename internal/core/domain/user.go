package domain

import "time"

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// User models a registered account. Role is fixed at registration.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsStudent() bool    { return u.Role == RoleStudent }
func (u *User) IsInstructor() bool { return u.Role == RoleInstructor }

// Identity is the authenticated actor attached to a request.
type Identity struct {
	ID    string
	Email string
	Role  string
}

func (i Identity) IsStudent() bool { return i.Role == RoleStudent }
