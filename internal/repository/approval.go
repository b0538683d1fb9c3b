package repository

import (
	"database/sql"
	"errors"
	"time"

	"lifecycle-api/internal/database"
	"lifecycle-api/internal/model"

	"github.com/google/uuid"
)

// ApprovalRepo implements ApprovalRepository
type ApprovalRepo struct {
	db *database.DB
}

// NewApprovalRepo creates a new approval repository
func NewApprovalRepo(db *database.DB) ApprovalRepository {
	return &ApprovalRepo{db: db}
}

const approvalColumns = `uuid, phase_uuid, approver_user_uuid, approver_name, approver_role, status, comments, decided_at, created_at, updated_at`

func scanApproval(scan func(dest ...interface{}) error) (*model.Approval, error) {
	approval := &model.Approval{}
	err := scan(
		&approval.UUID, &approval.PhaseUUID, &approval.ApproverUserUUID,
		&approval.ApproverName, &approval.ApproverRole, &approval.Status,
		&approval.Comments, &approval.DecidedAt, &approval.CreatedAt, &approval.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// CreateApproval inserts a new approval record
func (r *ApprovalRepo) CreateApproval(approval *model.Approval) error {
	u, err := uuid.NewV7()
	if err != nil {
		return err
	}
	approval.UUID = u.String()
	approval.CreatedAt = time.Now()
	approval.UpdatedAt = time.Now()

	query := r.db.Rebind(`
		INSERT INTO approvals (uuid, phase_uuid, approver_user_uuid, approver_name, approver_role, status, comments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.Exec(query,
		approval.UUID, approval.PhaseUUID, approval.ApproverUserUUID,
		approval.ApproverName, approval.ApproverRole, approval.Status,
		approval.Comments, approval.CreatedAt, approval.UpdatedAt,
	)
	return err
}

// GetApprovalByUUID retrieves an approval by ID
func (r *ApprovalRepo) GetApprovalByUUID(uuid string) (*model.Approval, error) {
	query := r.db.Rebind(`
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE uuid = ?
	`)
	row := r.db.QueryRow(query, uuid)
	approval, err := scanApproval(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return approval, nil
}

// GetApprovalsByPhaseUUID retrieves every approval attached to a phase
func (r *ApprovalRepo) GetApprovalsByPhaseUUID(phaseUUID string) ([]*model.Approval, error) {
	query := r.db.Rebind(`
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE phase_uuid = ?
		ORDER BY created_at ASC
	`)
	rows, err := r.db.Query(query, phaseUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*model.Approval
	for rows.Next() {
		approval, err := scanApproval(rows.Scan)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}

	return approvals, rows.Err()
}

// GetPendingApprovalsByApprover retrieves an approver's open decisions
func (r *ApprovalRepo) GetPendingApprovalsByApprover(approverUserUUID string) ([]*model.Approval, error) {
	query := r.db.Rebind(`
		SELECT ` + approvalColumns + `
		FROM approvals
		WHERE approver_user_uuid = ? AND status = 'pending'
		ORDER BY created_at ASC
	`)
	rows, err := r.db.Query(query, approverUserUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*model.Approval
	for rows.Next() {
		approval, err := scanApproval(rows.Scan)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}

	return approvals, rows.Err()
}

// UpdateApproval persists a recorded decision
func (r *ApprovalRepo) UpdateApproval(approval *model.Approval) error {
	approval.UpdatedAt = time.Now()
	query := r.db.Rebind(`
		UPDATE approvals
		SET status = ?, comments = ?, decided_at = ?, updated_at = ?
		WHERE uuid = ?
	`)
	_, err := r.db.Exec(query,
		approval.Status, approval.Comments, approval.DecidedAt,
		approval.UpdatedAt, approval.UUID,
	)
	return err
}
