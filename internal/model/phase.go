package model

import (
	"time"
)

// Phase represents one of the six fixed SDLC phases owned by a project.
// Data holds the phase-specific JSON document; its top-level keys are merged
// last-write-wins on every save, never replaced wholesale.
type Phase struct {
	UUID              string                 `json:"uuid" db:"uuid"`
	ProjectUUID       string                 `json:"project_uuid" db:"project_uuid"` // FK to Project.UUID
	PhaseNumber       int                    `json:"phase_number" db:"phase_number"` // 1..6, unique per project
	PhaseName         string                 `json:"phase_name" db:"phase_name"`
	Status            string                 `json:"status" db:"status"`
	Data              map[string]interface{} `json:"data" db:"data"`
	AIConfidenceScore *int                   `json:"ai_confidence_score" db:"ai_confidence_score"` // 0..100, nil until generated
	StartedAt         *time.Time             `json:"started_at" db:"started_at"`
	CompletedAt       *time.Time             `json:"completed_at" db:"completed_at"`
	CreatedAt         time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Phase model
func (Phase) TableName() string {
	return "phases"
}

// Stakeholder is an approver entry embedded in phase 1 data under "stakeholders".
// It is not a first-class entity; (Name, Role) pairs are unique within a project.
type Stakeholder struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Status string `json:"status"`
}
