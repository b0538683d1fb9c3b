package repository

import (
	"lifecycle-api/internal/model"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByUUID(uuid string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByIdentifier(identifier string) (*model.User, error)
	ListUsers(role string, limit, offset int) ([]*model.User, error)
	CountUsers(role string) (int, error)
	ListRoles() ([]string, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	CreateProject(project *model.Project, phases []*model.Phase) error
	GetProjectByUUID(uuid string) (*model.Project, error)
	ListProjects(limit, offset int) ([]*model.Project, error)
	CountProjects() (int, error)
	UpdateProject(project *model.Project) error
	UpdateCurrentPhase(uuid string, currentPhase int) error
	DeleteProject(uuid string) error
}

// PhaseRepository defines the interface for phase data access
type PhaseRepository interface {
	GetPhaseByUUID(uuid string) (*model.Phase, error)
	GetPhasesByProjectUUID(projectUUID string) ([]*model.Phase, error)
	GetPhaseByProjectAndNumber(projectUUID string, phaseNumber int) (*model.Phase, error)
	UpdatePhase(phase *model.Phase) error
	// UpdatePhaseStatusIf performs an atomic conditional status write: the row
	// is updated only while its current status is one of fromStatuses. Returns
	// false when another writer got there first.
	UpdatePhaseStatusIf(uuid string, fromStatuses []string, toStatus string) (bool, error)
}

// ApprovalRepository defines the interface for approval data access
type ApprovalRepository interface {
	CreateApproval(approval *model.Approval) error
	GetApprovalByUUID(uuid string) (*model.Approval, error)
	GetApprovalsByPhaseUUID(phaseUUID string) ([]*model.Approval, error)
	GetPendingApprovalsByApprover(approverUserUUID string) ([]*model.Approval, error)
	UpdateApproval(approval *model.Approval) error
}

// AIInteractionRepository defines the interface for the generation audit log
type AIInteractionRepository interface {
	CreateInteraction(interaction *model.AIInteraction) error
}
