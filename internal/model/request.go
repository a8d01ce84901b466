package model

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// SessionView is the body returned by GET /api/auth/session. Field names
// mirror the access-token claims so clients see the same shape either way.
type SessionView struct {
	User       SessionUser `json:"user"`
	Subject    string      `json:"sub"`
	UserTypeID Role        `json:"userTypeId"`
	IssuedAt   int64       `json:"iat"`
	ExpiresAt  int64       `json:"exp"`
}
