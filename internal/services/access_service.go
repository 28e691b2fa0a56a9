package services

import (
	"errors"
	"fmt"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
	"gorm.io/gorm"
)

// AccessService answers membership and admin questions for projects.
// Both checks are pure reads and are used as guards before every
// mutating project or task operation.
type AccessService struct {
	projectRepo repository.ProjectRepository
}

// NewAccessService creates a new AccessService.
func NewAccessService(projectRepo repository.ProjectRepository) *AccessService {
	return &AccessService{
		projectRepo: projectRepo,
	}
}

// IsMember reports whether the user is the project owner or holds a
// membership row. The owner check does not depend on the owner's
// membership row existing: project and membership creation are two
// separate writes and can diverge under partial failure. A missing
// project yields (false, nil); callers surface NotFound themselves.
func (s *AccessService) IsMember(projectID, userID uint64) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return true, nil
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify project membership: %w", err)
	}

	return true, nil
}

// IsAdmin reports whether the user is the project owner or holds an
// admin membership. A missing project yields (false, nil).
func (s *AccessService) IsAdmin(projectID, userID uint64) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return true, nil
	}

	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify project membership: %w", err)
	}

	return member.Role == models.RoleAdmin, nil
}
