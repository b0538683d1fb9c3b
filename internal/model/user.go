package model

import (
	"time"
)

// User represents an authenticated account. Users double as approvers: a
// stakeholder entry resolves to a user when the name matches, otherwise the
// approval keeps a composite identity.
type User struct {
	UUID           string    `json:"uuid" db:"uuid"`
	Email          string    `json:"email" db:"email"`
	Username       string    `json:"username" db:"username"`
	FullName       string    `json:"full_name" db:"full_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Role           string    `json:"role" db:"role"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
