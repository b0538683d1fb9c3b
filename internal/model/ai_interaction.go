package model

import (
	"time"
)

// AIInteraction is an audit row written for every round-trip to the generation
// provider (generate, analyze_risks, chat), successful or not.
type AIInteraction struct {
	UUID            string    `json:"uuid" db:"uuid"`
	UserUUID        string    `json:"user_uuid" db:"user_uuid"`
	ProjectUUID     *string   `json:"project_uuid" db:"project_uuid"`
	PhaseUUID       *string   `json:"phase_uuid" db:"phase_uuid"`
	InteractionType string    `json:"interaction_type" db:"interaction_type"`
	Prompt          string    `json:"prompt" db:"prompt"`
	Response        string    `json:"response" db:"response"`
	ConfidenceScore *int      `json:"confidence_score" db:"confidence_score"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the AIInteraction model
func (AIInteraction) TableName() string {
	return "ai_interactions"
}
