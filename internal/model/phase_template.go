package model

// PhaseTemplate describes one of the six catalog phases: the name a phase is
// created with plus informative metadata surfaced to clients. The catalog is
// compiled in and may be overridden from a YAML file at startup.
type PhaseTemplate struct {
	PhaseNumber    int      `json:"phase_number"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	KeyActivities  []string `json:"key_activities"`
	Deliverables   []string `json:"deliverables"`
	ApproverRoles  []string `json:"approver_roles"`
	RequiredFields []string `json:"required_fields"`
}
