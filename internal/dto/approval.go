package dto

import (
	"time"
)

// ApprovalResponse represents an approval record in API responses
type ApprovalResponse struct {
	ID             string     `json:"id"`
	PhaseID        string     `json:"phase_id"`
	ApproverUserID string     `json:"approver_user_id"`
	ApproverName   string     `json:"approver_name"`
	ApproverRole   string     `json:"approver_role"`
	Status         string     `json:"status"`
	Comments       *string    `json:"comments"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ApprovalListResponse represents the approvals attached to a phase or user
type ApprovalListResponse struct {
	Count int                `json:"count"`
	List  []ApprovalResponse `json:"list"`
}

// CreateApprovalsRequest represents the body for materializing approval
// records for a phase
type CreateApprovalsRequest struct {
	PhaseID      string             `json:"phase_id" binding:"required"`
	Stakeholders []StakeholderInput `json:"stakeholders" binding:"required"`
}

// ApprovalDecisionRequest represents the PUT body recording a decision
type ApprovalDecisionRequest struct {
	Status   string  `json:"status" binding:"required,oneof=approved rejected"`
	Comments *string `json:"comments"`
}
