package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lifecycle-api/internal/database"
	"lifecycle-api/internal/model"

	"github.com/google/uuid"
)

// ProjectRepo implements ProjectRepository
type ProjectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &ProjectRepo{db: db}
}

// CreateProject inserts a project together with its fixed set of phases in a
// single transaction. UUIDs and timestamps are assigned here.
func (r *ProjectRepo) CreateProject(project *model.Project, phases []*model.Phase) error {
	u, err := uuid.NewV7()
	if err != nil {
		return err
	}
	project.UUID = u.String()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO projects (uuid, name, description, status, current_phase, owner_uuid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = tx.Exec(query,
		project.UUID, project.Name, project.Description, project.Status,
		project.CurrentPhase, project.OwnerUUID, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return err
	}

	phaseQuery := r.db.Rebind(`
		INSERT INTO phases (uuid, project_uuid, phase_number, phase_name, status, data, ai_confidence_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for _, phase := range phases {
		pu, err := uuid.NewV7()
		if err != nil {
			return err
		}
		phase.UUID = pu.String()
		phase.ProjectUUID = project.UUID
		phase.CreatedAt = project.CreatedAt
		phase.UpdatedAt = project.CreatedAt

		dataJSON, err := json.Marshal(phase.Data)
		if err != nil {
			return err
		}
		_, err = tx.Exec(phaseQuery,
			phase.UUID, phase.ProjectUUID, phase.PhaseNumber, phase.PhaseName,
			phase.Status, string(dataJSON), phase.AIConfidenceScore,
			phase.CreatedAt, phase.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetProjectByUUID retrieves a project by ID
func (r *ProjectRepo) GetProjectByUUID(uuid string) (*model.Project, error) {
	project := &model.Project{}
	query := r.db.Rebind(`
		SELECT uuid, name, description, status, current_phase, owner_uuid, created_at, updated_at
		FROM projects
		WHERE uuid = ?
	`)
	err := r.db.QueryRow(query, uuid).Scan(
		&project.UUID, &project.Name, &project.Description, &project.Status,
		&project.CurrentPhase, &project.OwnerUUID, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

// ListProjects retrieves projects with pagination
func (r *ProjectRepo) ListProjects(limit, offset int) ([]*model.Project, error) {
	query := r.db.Rebind(`
		SELECT uuid, name, description, status, current_phase, owner_uuid, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project := &model.Project{}
		err := rows.Scan(
			&project.UUID, &project.Name, &project.Description, &project.Status,
			&project.CurrentPhase, &project.OwnerUUID, &project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// CountProjects returns the total number of projects
func (r *ProjectRepo) CountProjects() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}

// UpdateProject modifies an existing project
func (r *ProjectRepo) UpdateProject(project *model.Project) error {
	project.UpdatedAt = time.Now()
	query := r.db.Rebind(`
		UPDATE projects
		SET name = ?, description = ?, status = ?, current_phase = ?, updated_at = ?
		WHERE uuid = ?
	`)
	_, err := r.db.Exec(query,
		project.Name, project.Description, project.Status,
		project.CurrentPhase, project.UpdatedAt, project.UUID,
	)
	return err
}

// UpdateCurrentPhase advances the project's current phase pointer
func (r *ProjectRepo) UpdateCurrentPhase(uuid string, currentPhase int) error {
	query := r.db.Rebind(`
		UPDATE projects
		SET current_phase = ?, updated_at = ?
		WHERE uuid = ?
	`)
	_, err := r.db.Exec(query, currentPhase, time.Now(), uuid)
	return err
}

// DeleteProject removes a project and everything hanging off it. Phases and
// approvals go via ON DELETE CASCADE; AI interactions carry no FK and are
// deleted explicitly in the same transaction.
func (r *ProjectRepo) DeleteProject(uuid string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM ai_interactions WHERE project_uuid = ?`), uuid); err != nil {
		return err
	}
	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM projects WHERE uuid = ?`), uuid); err != nil {
		return err
	}

	return tx.Commit()
}
