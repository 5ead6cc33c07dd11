package model

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies a registered identity.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Person is a registered identity known to the attendance ledger.
// The (Name, Role) pair is unique; the face corpus is keyed the same way,
// but the ledger, not the matcher, is the authority on who is registered.
type Person struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterPersonRequest is the payload for registering a new identity.
type RegisterPersonRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Role Role   `json:"role" binding:"required,oneof=student teacher"`
}
