package services

import (
	"errors"
	"fmt"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyAssigned   = errors.New("user is already assigned to this task")
	ErrAssigneeNotMember = errors.New("the user to assign is not a member of the project")
)

// AssignmentService manages task assignments and the automatic
// unassigned/assigned edge of the task status machine. The status is
// recomputed inline with each mutation, never asynchronously.
type AssignmentService struct {
	taskRepo repository.TaskRepository
	access   *AccessService
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(taskRepo repository.TaskRepository, access *AccessService) *AssignmentService {
	return &AssignmentService{
		taskRepo: taskRepo,
		access:   access,
	}
}

// Assign links a user to a task. Both the requester and the target
// must be members of the task's project. Assigning an already assigned
// user is a conflict. A task that was unassigned becomes assigned.
func (s *AssignmentService) Assign(taskID, targetUserID, requesterID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	member, err := s.access.IsMember(task.ProjectID, requesterID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotProjectMember
	}

	targetMember, err := s.access.IsMember(task.ProjectID, targetUserID)
	if err != nil {
		return err
	}
	if !targetMember {
		return ErrAssigneeNotMember
	}

	if _, err := s.taskRepo.FindAssignment(taskID, targetUserID); err == nil {
		return ErrAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify assignment: %w", err)
	}

	assignment := &models.TaskAssignment{
		TaskID:     taskID,
		UserID:     targetUserID,
		AssignedBy: requesterID,
	}

	if err := s.taskRepo.CreateAssignment(assignment); err != nil {
		return fmt.Errorf("failed to assign user: %w", err)
	}

	if task.Status == models.TaskStatusUnassigned {
		if err := s.taskRepo.UpdateStatus(taskID, models.TaskStatusAssigned); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
	}

	return nil
}

// Unassign removes a user's assignment from a task. Removing an
// assignment that does not exist is a no-op. When no assignments
// remain the task falls back to unassigned; a non-empty remainder
// leaves the status untouched, so in_progress and done never revert
// automatically.
func (s *AssignmentService) Unassign(taskID, targetUserID, requesterID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	member, err := s.access.IsMember(task.ProjectID, requesterID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotProjectMember
	}

	if _, err := s.taskRepo.DeleteAssignment(taskID, targetUserID); err != nil {
		return fmt.Errorf("failed to unassign user: %w", err)
	}

	remaining, err := s.taskRepo.CountAssignments(taskID)
	if err != nil {
		return fmt.Errorf("failed to count assignments: %w", err)
	}

	if remaining == 0 && task.Status != models.TaskStatusUnassigned {
		if err := s.taskRepo.UpdateStatus(taskID, models.TaskStatusUnassigned); err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
	}

	return nil
}

// List returns a task's assignments with their users. Requires
// membership of the task's project.
func (s *AssignmentService) List(taskID, requesterID uint64) ([]models.TaskAssignment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	member, err := s.access.IsMember(task.ProjectID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotProjectMember
	}

	assignments, err := s.taskRepo.ListAssignments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}
