package model

import "time"

// Role is the closed set of user types known to the platform.
type Role int

const (
	RoleProfessor Role = 1
	RoleAluno     Role = 2
)

func (r Role) Valid() bool {
	switch r {
	case RoleProfessor, RoleAluno:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleProfessor:
		return "Professor"
	case RoleAluno:
		return "Aluno"
	}
	return "Desconhecido"
}

// User is the account record as stored by the user-management subsystem.
// This service only ever reads it.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       Role      `json:"userTypeId"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserType is immutable reference data backing the Role enum.
type UserType struct {
	ID          Role   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SessionUser is the profile slice embedded in access tokens.
type SessionUser struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// TokenPair carries a freshly minted access/refresh pair together with the
// exact expiries the cookie layer must echo.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
