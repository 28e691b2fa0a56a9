package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrNotProjectMember   = errors.New("user is not a member of the project")
	ErrNotProjectAdmin    = errors.New("admin access to the project is required")
	ErrNotProjectOwner    = errors.New("only the project owner can perform this action")
	ErrAlreadyMember      = errors.New("user is already a member of the project")
	ErrMemberNotFound     = errors.New("project member not found")
	ErrCannotRemoveOwner  = errors.New("the project owner's membership cannot be removed")
	ErrFailedToAddOwner   = errors.New("failed to add owner membership to project")
	ErrMemberUserNotFound = errors.New("no user exists with that email")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	access      *AccessService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, access *AccessService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		access:      access,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create creates a project and the owner's admin membership. The two
// writes are intentionally not wrapped in one transaction: the
// membership write compensates by deleting the fresh project when it
// fails, so a project is never left behind without an admin member.
func (s *ProjectService) Create(input CreateProjectInput, ownerID uint64) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     ownerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.ProjectStatusActive,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleAdmin,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		if cleanupErr := s.projectRepo.Delete(project.ID); cleanupErr != nil {
			logrus.WithFields(logrus.Fields{
				"project_id": project.ID,
				"error":      cleanupErr,
			}).Error("failed to clean up project after membership write failure")
		}
		return nil, ErrFailedToAddOwner
	}

	return project, nil
}

// Get returns a project after verifying the requester's membership.
// Existence is checked before access so a missing project reports
// NotFound rather than a permission error.
func (s *ProjectService) Get(projectID, requesterID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.access.IsMember(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotProjectMember
	}

	return project, nil
}

// UpdateProjectInput carries the optional fields of a project patch.
// Nil fields are left untouched.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *models.ProjectStatus
}

// Update applies a partial update. Requires admin access.
func (s *ProjectService) Update(projectID uint64, input UpdateProjectInput, requesterID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	admin, err := s.access.IsAdmin(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrNotProjectAdmin
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes a project and cascades to members, tasks and
// assignments. Only the owner may delete; admin membership is not
// sufficient.
func (s *ProjectService) Delete(projectID, requesterID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID != requesterID {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ListForUser returns the projects the user owns or is a member of,
// deduplicated, newest first.
func (s *ProjectService) ListForUser(userID uint64, page, limit int, status *models.ProjectStatus) ([]models.Project, int64, error) {
	filter := repository.ProjectFilter{
		Status:   status,
		Page:     page,
		PageSize: limit,
	}

	projects, total, err := s.projectRepo.ListForUser(userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, total, nil
}

// AddMember adds a user, resolved by email, as a project member.
// Requires admin access; duplicate memberships are a conflict.
func (s *ProjectService) AddMember(projectID, requesterID uint64, email string, role models.ProjectRole) (*models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	admin, err := s.access.IsAdmin(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, ErrNotProjectAdmin
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if role == "" {
		role = models.RoleMember
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember removes a member from the project. Requires admin
// access. The owner's membership is not removable through this path,
// keeping every project with at least one admin.
func (s *ProjectService) RemoveMember(projectID, requesterID, targetUserID uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	admin, err := s.access.IsAdmin(projectID, requesterID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrNotProjectAdmin
	}

	if targetUserID == project.OwnerID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.projectRepo.FindMember(projectID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find project member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// GetMembers returns the project's members with their users. Requires
// membership.
func (s *ProjectService) GetMembers(projectID, requesterID uint64) ([]models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.access.IsMember(projectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotProjectMember
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}

	return members, nil
}
