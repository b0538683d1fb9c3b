package dto

import (
	"time"
)

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	CurrentPhase int             `json:"current_phase"`
	OwnerID      string          `json:"owner_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Phases       []PhaseResponse `json:"phases,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Count      int               `json:"count"`
	List       []ProjectResponse `json:"list"`
	Pagination PaginationInfo    `json:"pagination"`
}

// AddStakeholderRequest represents the request body for attaching a
// stakeholder to a project's requirements phase
type AddStakeholderRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// StakeholderResponse represents one stakeholder entry in phase 1 data
type StakeholderResponse struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// StakeholderListResponse represents the stakeholder roster of a project
type StakeholderListResponse struct {
	Count int                   `json:"count"`
	List  []StakeholderResponse `json:"list"`
}

// ExportedIssue represents one issue created in the external tracker
type ExportedIssue struct {
	Title    string `json:"title"`
	IssueKey string `json:"issue_key"`
	IssueURL string `json:"issue_url,omitempty"`
}

// ExportIssuesResponse represents the outcome of exporting a project's epics
// to the external tracker
type ExportIssuesResponse struct {
	Status   string          `json:"status"`
	Exported int             `json:"exported"`
	Issues   []ExportedIssue `json:"issues"`
	Message  string          `json:"message"`
}
