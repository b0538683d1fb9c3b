/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/database"
	"lifecycle-api/internal/model"
)

// PhaseRepo implements PhaseRepository
type PhaseRepo struct {
	db *database.DB
}

// NewPhaseRepo creates a new phase repository
func NewPhaseRepo(db *database.DB) PhaseRepository {
	return &PhaseRepo{db: db}
}

const phaseColumns = `uuid, project_uuid, phase_number, phase_name, status, data, ai_confidence_score, started_at, completed_at, created_at, updated_at`

func scanPhase(scan func(dest ...interface{}) error) (*model.Phase, error) {
	phase := &model.Phase{}
	var dataJSON sql.NullString
	err := scan(
		&phase.UUID, &phase.ProjectUUID, &phase.PhaseNumber, &phase.PhaseName,
		&phase.Status, &dataJSON, &phase.AIConfidenceScore,
		&phase.StartedAt, &phase.CompletedAt, &phase.CreatedAt, &phase.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	phase.Data = map[string]interface{}{}
	if dataJSON.Valid && dataJSON.String != "" {
		if err := json.Unmarshal([]byte(dataJSON.String), &phase.Data); err != nil {
			return nil, fmt.Errorf("failed to decode phase data for %s: %w", phase.UUID, err)
		}
	}
	return phase, nil
}

// GetPhaseByUUID retrieves a phase by ID, including its decoded data document
func (r *PhaseRepo) GetPhaseByUUID(uuid string) (*model.Phase, error) {
	query := r.db.Rebind(`
		SELECT ` + phaseColumns + `
		FROM phases
		WHERE uuid = ?
	`)
	row := r.db.QueryRow(query, uuid)
	phase, err := scanPhase(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return phase, nil
}

// GetPhasesByProjectUUID retrieves all phases of a project ordered by phase number
func (r *PhaseRepo) GetPhasesByProjectUUID(projectUUID string) ([]*model.Phase, error) {
	query := r.db.Rebind(`
		SELECT ` + phaseColumns + `
		FROM phases
		WHERE project_uuid = ?
		ORDER BY phase_number ASC
	`)
	rows, err := r.db.Query(query, projectUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phases []*model.Phase
	for rows.Next() {
		phase, err := scanPhase(rows.Scan)
		if err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}

	return phases, rows.Err()
}

// GetPhaseByProjectAndNumber retrieves one phase by its (project, number) pair
func (r *PhaseRepo) GetPhaseByProjectAndNumber(projectUUID string, phaseNumber int) (*model.Phase, error) {
	query := r.db.Rebind(`
		SELECT ` + phaseColumns + `
		FROM phases
		WHERE project_uuid = ? AND phase_number = ?
	`)
	row := r.db.QueryRow(query, projectUUID, phaseNumber)
	phase, err := scanPhase(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return phase, nil
}

// UpdatePhase persists the phase's mutable columns. The data document is
// stored whole; merging happens in the service layer before this call.
func (r *PhaseRepo) UpdatePhase(phase *model.Phase) error {
	phase.UpdatedAt = time.Now()

	dataJSON, err := json.Marshal(phase.Data)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		UPDATE phases
		SET status = ?, data = ?, ai_confidence_score = ?, started_at = ?, completed_at = ?, updated_at = ?
		WHERE uuid = ?
	`)
	_, err = r.db.Exec(query,
		phase.Status, string(dataJSON), phase.AIConfidenceScore,
		phase.StartedAt, phase.CompletedAt, phase.UpdatedAt, phase.UUID,
	)
	return err
}

// UpdatePhaseStatusIf flips the phase status only while the current status is
// one of fromStatuses. The single conditional UPDATE is what makes concurrent
// submissions race-safe: exactly one writer sees rows affected.
func (r *PhaseRepo) UpdatePhaseStatusIf(uuid string, fromStatuses []string, toStatus string) (bool, error) {
	if len(fromStatuses) == 0 {
		return false, fmt.Errorf("fromStatuses must not be empty")
	}

	now := time.Now()
	placeholders := strings.Repeat("?, ", len(fromStatuses))
	placeholders = strings.TrimSuffix(placeholders, ", ")

	set := `status = ?, updated_at = ?`
	args := []interface{}{toStatus, now}
	switch toStatus {
	case constants.PhaseStatusInProgress:
		set += `, started_at = COALESCE(started_at, ?)`
		args = append(args, now)
	case constants.PhaseStatusApproved:
		set += `, completed_at = ?`
		args = append(args, now)
	}

	query := r.db.Rebind(`UPDATE phases SET ` + set + ` WHERE uuid = ? AND status IN (` + placeholders + `)`)
	args = append(args, uuid)
	for _, s := range fromStatuses {
		args = append(args, s)
	}

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
