/*
 *  Copyright (c) 2026, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
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

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"lifecycle-api/internal/client/llm_client"
	"lifecycle-api/internal/constants"
	"lifecycle-api/internal/dto"
	"lifecycle-api/internal/model"
)

// The repository mocks below are in-memory stores rather than canned-answer
// stubs: the workflow tests exercise read-modify-write sequences, conditional
// status updates and cascades, which need rows that actually change. Rows are
// cloned on the way in and out so a service-side mutation only becomes
// visible once the corresponding update call persists it, like the real
// database-backed repositories.

// mockPhaseRepository is an in-memory implementation of the PhaseRepository interface
type mockPhaseRepository struct {
	phases map[string]*model.Phase
	seq    int

	// Mock behavior configuration
	getErr    error
	updateErr error
	casErr    error
	beforeCAS func() // runs before the conditional update evaluates, to stage races

	// Call tracking for verification
	updateCalls int
	casCalls    int
}

func newMockPhaseRepository(phases ...*model.Phase) *mockPhaseRepository {
	m := &mockPhaseRepository{phases: map[string]*model.Phase{}}
	for _, phase := range phases {
		m.addPhase(phase)
	}
	return m
}

func (m *mockPhaseRepository) addPhase(phase *model.Phase) *model.Phase {
	m.seq++
	stored := clonePhase(phase)
	if stored.UUID == "" {
		stored.UUID = fmt.Sprintf("phase-%d", m.seq)
	}
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	m.phases[stored.UUID] = stored
	return clonePhase(stored)
}

func (m *mockPhaseRepository) GetPhaseByUUID(uuid string) (*model.Phase, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return clonePhase(m.phases[uuid]), nil
}

func (m *mockPhaseRepository) GetPhasesByProjectUUID(projectUUID string) ([]*model.Phase, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var phases []*model.Phase
	for _, phase := range m.phases {
		if phase.ProjectUUID == projectUUID {
			phases = append(phases, clonePhase(phase))
		}
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i].PhaseNumber < phases[j].PhaseNumber })
	return phases, nil
}

func (m *mockPhaseRepository) GetPhaseByProjectAndNumber(projectUUID string, phaseNumber int) (*model.Phase, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, phase := range m.phases {
		if phase.ProjectUUID == projectUUID && phase.PhaseNumber == phaseNumber {
			return clonePhase(phase), nil
		}
	}
	return nil, nil
}

func (m *mockPhaseRepository) UpdatePhase(phase *model.Phase) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	phase.UpdatedAt = time.Now()
	m.phases[phase.UUID] = clonePhase(phase)
	return nil
}

func (m *mockPhaseRepository) UpdatePhaseStatusIf(uuid string, fromStatuses []string, toStatus string) (bool, error) {
	m.casCalls++
	if m.casErr != nil {
		return false, m.casErr
	}
	if m.beforeCAS != nil {
		m.beforeCAS()
	}
	phase, ok := m.phases[uuid]
	if !ok {
		return false, nil
	}
	for _, from := range fromStatuses {
		if phase.Status != from {
			continue
		}
		phase.Status = toStatus
		now := time.Now()
		switch toStatus {
		case constants.PhaseStatusInProgress:
			if phase.StartedAt == nil {
				phase.StartedAt = &now
			}
		case constants.PhaseStatusApproved:
			phase.CompletedAt = &now
		}
		phase.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

// setStatus mutates a stored row directly, bypassing clone semantics. Used to
// stage concurrent writers.
func (m *mockPhaseRepository) setStatus(uuid, status string) {
	if phase, ok := m.phases[uuid]; ok {
		phase.Status = status
	}
}

// stored returns the persisted row (cloned) for assertions on what was saved
func (m *mockPhaseRepository) stored(uuid string) *model.Phase {
	return clonePhase(m.phases[uuid])
}

// mockProjectRepository is an in-memory implementation of the ProjectRepository interface.
// It shares a mockPhaseRepository so CreateProject can seed phase rows the way
// the transactional repository does.
type mockProjectRepository struct {
	projects  map[string]*model.Project
	order     []string
	phaseRepo *mockPhaseRepository
	seq       int

	// Mock behavior configuration
	createErr error
	getErr    error

	// Call tracking for verification
	currentPhaseWrites []int
}

func newMockProjectRepository(phaseRepo *mockPhaseRepository, projects ...*model.Project) *mockProjectRepository {
	m := &mockProjectRepository{projects: map[string]*model.Project{}, phaseRepo: phaseRepo}
	for _, project := range projects {
		stored := cloneProject(project)
		if stored.UUID == "" {
			m.seq++
			stored.UUID = fmt.Sprintf("project-%d", m.seq)
		}
		m.projects[stored.UUID] = stored
		m.order = append(m.order, stored.UUID)
	}
	return m
}

func (m *mockProjectRepository) CreateProject(project *model.Project, phases []*model.Phase) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if project.UUID == "" {
		project.UUID = fmt.Sprintf("project-%d", m.seq)
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	m.projects[project.UUID] = cloneProject(project)
	m.order = append(m.order, project.UUID)

	for _, phase := range phases {
		phase.ProjectUUID = project.UUID
		stored := m.phaseRepo.addPhase(phase)
		phase.UUID = stored.UUID
		phase.CreatedAt = stored.CreatedAt
		phase.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

func (m *mockProjectRepository) GetProjectByUUID(uuid string) (*model.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return cloneProject(m.projects[uuid]), nil
}

func (m *mockProjectRepository) ListProjects(limit, offset int) ([]*model.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	// most recent first, like the ORDER BY created_at DESC in the real store
	var projects []*model.Project
	for i := len(m.order) - 1; i >= 0; i-- {
		projects = append(projects, cloneProject(m.projects[m.order[i]]))
	}
	if offset >= len(projects) {
		return nil, nil
	}
	projects = projects[offset:]
	if limit < len(projects) {
		projects = projects[:limit]
	}
	return projects, nil
}

func (m *mockProjectRepository) CountProjects() (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return len(m.projects), nil
}

func (m *mockProjectRepository) UpdateProject(project *model.Project) error {
	m.projects[project.UUID] = cloneProject(project)
	return nil
}

func (m *mockProjectRepository) UpdateCurrentPhase(uuid string, currentPhase int) error {
	m.currentPhaseWrites = append(m.currentPhaseWrites, currentPhase)
	if project, ok := m.projects[uuid]; ok {
		project.CurrentPhase = currentPhase
	}
	return nil
}

func (m *mockProjectRepository) DeleteProject(uuid string) error {
	delete(m.projects, uuid)
	for i, id := range m.order {
		if id == uuid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	// cascade to phases, like the FK in the schema
	for id, phase := range m.phaseRepo.phases {
		if phase.ProjectUUID == uuid {
			delete(m.phaseRepo.phases, id)
		}
	}
	return nil
}

// mockApprovalRepository is an in-memory implementation of the ApprovalRepository
// interface. It enforces the unique (phase, approver) index with the same
// error text the sqlite driver produces.
type mockApprovalRepository struct {
	approvals map[string]*model.Approval
	order     []string
	seq       int

	// Mock behavior configuration
	createErr error
	updateErr error

	// Call tracking for verification
	createCalls int
	updateCalls int
}

func newMockApprovalRepository() *mockApprovalRepository {
	return &mockApprovalRepository{approvals: map[string]*model.Approval{}}
}

func (m *mockApprovalRepository) CreateApproval(approval *model.Approval) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.approvals {
		if existing.PhaseUUID == approval.PhaseUUID && existing.ApproverUserUUID == approval.ApproverUserUUID {
			return fmt.Errorf("UNIQUE constraint failed: approvals.phase_uuid, approvals.approver_user_uuid")
		}
	}
	m.seq++
	if approval.UUID == "" {
		approval.UUID = fmt.Sprintf("approval-%d", m.seq)
	}
	now := time.Now()
	approval.CreatedAt = now
	approval.UpdatedAt = now
	m.approvals[approval.UUID] = cloneApproval(approval)
	m.order = append(m.order, approval.UUID)
	return nil
}

func (m *mockApprovalRepository) GetApprovalByUUID(uuid string) (*model.Approval, error) {
	return cloneApproval(m.approvals[uuid]), nil
}

func (m *mockApprovalRepository) GetApprovalsByPhaseUUID(phaseUUID string) ([]*model.Approval, error) {
	var approvals []*model.Approval
	for _, id := range m.order {
		if approval := m.approvals[id]; approval != nil && approval.PhaseUUID == phaseUUID {
			approvals = append(approvals, cloneApproval(approval))
		}
	}
	return approvals, nil
}

func (m *mockApprovalRepository) GetPendingApprovalsByApprover(approverUserUUID string) ([]*model.Approval, error) {
	var approvals []*model.Approval
	for _, id := range m.order {
		approval := m.approvals[id]
		if approval != nil && approval.ApproverUserUUID == approverUserUUID && approval.Status == constants.ApprovalStatusPending {
			approvals = append(approvals, cloneApproval(approval))
		}
	}
	return approvals, nil
}

func (m *mockApprovalRepository) UpdateApproval(approval *model.Approval) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	approval.UpdatedAt = time.Now()
	m.approvals[approval.UUID] = cloneApproval(approval)
	return nil
}

// mockUserRepository is an in-memory implementation of the UserRepository interface
type mockUserRepository struct {
	users map[string]*model.User
	order []string
	seq   int

	// Mock behavior configuration
	createErr error
	getErr    error
}

func newMockUserRepository(users ...*model.User) *mockUserRepository {
	m := &mockUserRepository{users: map[string]*model.User{}}
	for _, user := range users {
		stored := cloneUser(user)
		if stored.UUID == "" {
			m.seq++
			stored.UUID = fmt.Sprintf("user-%d", m.seq)
		}
		m.users[stored.UUID] = stored
		m.order = append(m.order, stored.UUID)
	}
	return m
}

func (m *mockUserRepository) CreateUser(user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return fmt.Errorf("UNIQUE constraint failed: users.email")
		}
		if existing.Username == user.Username {
			return fmt.Errorf("UNIQUE constraint failed: users.username")
		}
	}
	m.seq++
	if user.UUID == "" {
		user.UUID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	m.users[user.UUID] = cloneUser(user)
	m.order = append(m.order, user.UUID)
	return nil
}

func (m *mockUserRepository) GetUserByUUID(uuid string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return cloneUser(m.users[uuid]), nil
}

func (m *mockUserRepository) GetUserByEmail(email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetUserByUsername(username string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) GetUserByIdentifier(identifier string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ListUsers(role string, limit, offset int) ([]*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var users []*model.User
	for _, id := range m.order {
		user := m.users[id]
		if role != "" && user.Role != role {
			continue
		}
		users = append(users, cloneUser(user))
	}
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (m *mockUserRepository) CountUsers(role string) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	count := 0
	for _, user := range m.users {
		if role == "" || user.Role == role {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepository) ListRoles() ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	seen := map[string]bool{}
	var roles []string
	for _, user := range m.users {
		if !seen[user.Role] {
			seen[user.Role] = true
			roles = append(roles, user.Role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// mockInteractionRepository records audit rows for verification
type mockInteractionRepository struct {
	// Mock behavior configuration
	createErr error

	// Call tracking for verification
	interactions []*model.AIInteraction
}

func (m *mockInteractionRepository) CreateInteraction(interaction *model.AIInteraction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.interactions = append(m.interactions, interaction)
	return nil
}

// mockGateway is a scriptable implementation of the llm_client.Gateway interface
type mockGateway struct {
	// Mock behavior configuration
	generateResult *llm_client.GenerationResult
	generateErr    error
	generateHook   func() // runs while the provider call is "in flight"
	analyzeResult  *llm_client.RiskAnalysisResult
	analyzeErr     error
	analyzeHook    func() // runs while the analysis call is "in flight"
	chatResult     *llm_client.ChatResult
	chatErr        error

	// Call tracking for verification
	generateCalls   int
	analyzeCalls    int
	chatCalls       int
	lastContentType string
	lastPayload     map[string]interface{}
	lastChatRequest *llm_client.ChatRequest
}

func (m *mockGateway) GenerateContent(ctx context.Context, contentType string, payload map[string]interface{}) (*llm_client.GenerationResult, error) {
	m.generateCalls++
	m.lastContentType = contentType
	m.lastPayload = payload
	if m.generateHook != nil {
		m.generateHook()
	}
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	if m.generateResult != nil {
		return m.generateResult, nil
	}
	return &llm_client.GenerationResult{Content: "generated content"}, nil
}

func (m *mockGateway) AnalyzeRisks(ctx context.Context, payload map[string]interface{}) (*llm_client.RiskAnalysisResult, error) {
	m.analyzeCalls++
	m.lastPayload = payload
	if m.analyzeHook != nil {
		m.analyzeHook()
	}
	if m.analyzeErr != nil {
		return nil, m.analyzeErr
	}
	if m.analyzeResult != nil {
		return m.analyzeResult, nil
	}
	return &llm_client.RiskAnalysisResult{}, nil
}

func (m *mockGateway) Chat(ctx context.Context, req *llm_client.ChatRequest) (*llm_client.ChatResult, error) {
	m.chatCalls++
	m.lastChatRequest = req
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	if m.chatResult != nil {
		return m.chatResult, nil
	}
	return &llm_client.ChatResult{Response: "answer"}, nil
}

func generationResult(content interface{}, score int) *llm_client.GenerationResult {
	return &llm_client.GenerationResult{Content: content, ConfidenceScore: &score}
}

// mockExporter is a scriptable implementation of the IssueExporter interface
type mockExporter struct {
	// Mock behavior configuration
	issues []dto.ExportedIssue
	err    error

	// Call tracking for verification
	exportCalls     int
	lastProjectName string
	lastEpics       []map[string]interface{}
}

func (m *mockExporter) ExportEpics(ctx context.Context, projectName string, epics []map[string]interface{}) ([]dto.ExportedIssue, error) {
	m.exportCalls++
	m.lastProjectName = projectName
	m.lastEpics = epics
	if m.err != nil {
		return nil, m.err
	}
	return m.issues, nil
}

// ---- clone helpers ----

func clonePhase(phase *model.Phase) *model.Phase {
	if phase == nil {
		return nil
	}
	clone := *phase
	if phase.Data != nil {
		clone.Data = make(map[string]interface{}, len(phase.Data))
		for key, value := range phase.Data {
			clone.Data[key] = value
		}
	}
	return &clone
}

func cloneProject(project *model.Project) *model.Project {
	if project == nil {
		return nil
	}
	clone := *project
	return &clone
}

func cloneApproval(approval *model.Approval) *model.Approval {
	if approval == nil {
		return nil
	}
	clone := *approval
	return &clone
}

func cloneUser(user *model.User) *model.User {
	if user == nil {
		return nil
	}
	clone := *user
	return &clone
}

// ---- test data helpers ----

func ptr(s string) *string {
	return &s
}

func intPtr(n int) *int {
	return &n
}

func errContainsAll(err error, parts ...string) bool {
	if err == nil {
		return false
	}
	for _, part := range parts {
		if !strings.Contains(err.Error(), part) {
			return false
		}
	}
	return true
}
