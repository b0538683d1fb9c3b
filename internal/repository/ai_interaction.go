package repository

import (
	"time"

	"lifecycle-api/internal/database"
	"lifecycle-api/internal/model"

	"github.com/google/uuid"
)

// AIInteractionRepo implements AIInteractionRepository
type AIInteractionRepo struct {
	db *database.DB
}

// NewAIInteractionRepo creates a new AI interaction repository
func NewAIInteractionRepo(db *database.DB) AIInteractionRepository {
	return &AIInteractionRepo{db: db}
}

// CreateInteraction appends one audit row for a provider round-trip
func (r *AIInteractionRepo) CreateInteraction(interaction *model.AIInteraction) error {
	u, err := uuid.NewV7()
	if err != nil {
		return err
	}
	interaction.UUID = u.String()
	interaction.CreatedAt = time.Now()

	query := r.db.Rebind(`
		INSERT INTO ai_interactions (uuid, user_uuid, project_uuid, phase_uuid, interaction_type, prompt, response, confidence_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.Exec(query,
		interaction.UUID, interaction.UserUUID, interaction.ProjectUUID, interaction.PhaseUUID,
		interaction.InteractionType, interaction.Prompt, interaction.Response,
		interaction.ConfidenceScore, interaction.CreatedAt,
	)
	return err
}
