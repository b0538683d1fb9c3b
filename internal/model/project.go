package model

import (
	"time"
)

// Project represents an SDLC project tracked through the six lifecycle phases
type Project struct {
	UUID         string    `json:"uuid" db:"uuid"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Status       string    `json:"status" db:"status"`
	CurrentPhase int       `json:"current_phase" db:"current_phase"` // 1..6, never past highest approved phase + 1
	OwnerUUID    string    `json:"owner_uuid" db:"owner_uuid"`       // FK to User.UUID
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}
