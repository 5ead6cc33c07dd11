package model

import "time"

// Operator is a staff account allowed to start and end attendance sessions
// and to manage people and schedules.
type Operator struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// OperatorLoginRequest is the payload for operator authentication.
type OperatorLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// OperatorLoginResponse is returned after a successful login.
type OperatorLoginResponse struct {
	Token    string   `json:"token"`
	Operator Operator `json:"operator"`
}
