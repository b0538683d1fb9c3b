package model

import (
	"time"
)

// Approval represents one stakeholder's sign-off on a phase submission.
// Once the status leaves pending it is terminal; a phase is approved only
// when every one of its approvals is approved.
type Approval struct {
	UUID             string     `json:"uuid" db:"uuid"`
	PhaseUUID        string     `json:"phase_uuid" db:"phase_uuid"` // FK to Phase.UUID
	ApproverUserUUID string     `json:"approver_user_uuid" db:"approver_user_uuid"`
	ApproverName     string     `json:"approver_name" db:"approver_name"`
	ApproverRole     string     `json:"approver_role" db:"approver_role"`
	Status           string     `json:"status" db:"status"`
	Comments         *string    `json:"comments" db:"comments"`
	DecidedAt        *time.Time `json:"decided_at" db:"decided_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Approval model
func (Approval) TableName() string {
	return "approvals"
}
