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
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleEmpty          = errors.New("title cannot be empty")
	ErrInvalidAssignee     = errors.New("one or more assignees are not members of the project")
	ErrNotTaskOwnerOrAdmin = errors.New("only the task creator or a project admin can delete this task")
)

// taskPreloads are the relations loaded when returning a single task.
var taskPreloads = []string{"Creator", "Assignments", "Assignments.User"}

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	access      *AccessService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, access *AccessService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		access:      access,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title           string
	Description     string
	Priority        models.TaskPriority
	DueDate         *time.Time
	EstimatedHours  *float64
	AssignedUserIDs []uint64
}

// CreateTaskResult carries a created task together with a non-fatal
// warning raised while writing its initial assignments.
type CreateTaskResult struct {
	Task    *models.Task
	Warning error
}

// Create creates a task in a project. Every requested assignee must be
// a project member; a non-member assignee rejects the whole creation
// before the task row is written. Assignment writes after the task
// insert are tolerated failures: the task stands, the failure is
// logged and reported through the result's warning.
func (s *TaskService) Create(projectID uint64, input CreateTaskInput, requesterID uint64) (*CreateTaskResult, error) {
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

	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	assigneeIDs := uniqueUint64(input.AssignedUserIDs)
	if len(assigneeIDs) > 0 {
		// The owner counts as a member even without a membership row,
		// same as the access checks.
		candidates := make([]uint64, 0, len(assigneeIDs))
		for _, id := range assigneeIDs {
			if id != project.OwnerID {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) > 0 {
			count, err := s.projectRepo.CountMembers(projectID, candidates)
			if err != nil {
				return nil, fmt.Errorf("failed to verify assignees: %w", err)
			}
			if int(count) != len(candidates) {
				return nil, ErrInvalidAssignee
			}
		}
	}

	task := &models.Task{
		ProjectID:      projectID,
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         models.TaskStatusUnassigned,
		CreatedBy:      requesterID,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	var warn error
	if len(assigneeIDs) > 0 {
		assignments := make([]models.TaskAssignment, len(assigneeIDs))
		for i, userID := range assigneeIDs {
			assignments[i] = models.TaskAssignment{
				TaskID:     task.ID,
				UserID:     userID,
				AssignedBy: requesterID,
			}
		}

		if err := s.taskRepo.CreateAssignments(assignments); err != nil {
			logrus.WithFields(logrus.Fields{
				"task_id": task.ID,
				"error":   err,
			}).Warn("task created but assignment writes failed")
			warn = fmt.Errorf("task created but assignments could not be written")
		} else if err := s.taskRepo.UpdateStatus(task.ID, models.TaskStatusAssigned); err != nil {
			logrus.WithFields(logrus.Fields{
				"task_id": task.ID,
				"error":   err,
			}).Warn("task created but status update failed")
			warn = fmt.Errorf("task created but status could not be updated")
		}
	}

	created, err := s.taskRepo.FindByID(task.ID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return &CreateTaskResult{Task: created, Warning: warn}, nil
}

// Get returns a task after verifying the requester's membership of the
// task's project. A missing task is NotFound before any access check.
func (s *TaskService) Get(taskID, requesterID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskPreloads...)
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

	return task, nil
}

// UpdateTaskInput carries the optional fields of a task patch. Nil
// fields are left untouched; ClearDueDate removes the due date.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	Status         *models.TaskStatus
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	ActualHours    *float64
}

// Update applies a partial update. Any project member may edit any
// task, including explicit status transitions to in_progress or done
// and back; the automatic unassigned/assigned edge is owned by the
// assignment flow.
func (s *TaskService) Update(taskID uint64, input UpdateTaskInput, requesterID uint64) (*models.Task, error) {
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

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = input.ActualHours
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// Delete removes a task. Allowed for the task creator or a project
// admin.
func (s *TaskService) Delete(taskID, requesterID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatedBy != requesterID {
		admin, err := s.access.IsAdmin(task.ProjectID, requesterID)
		if err != nil {
			return err
		}
		if !admin {
			return ErrNotTaskOwnerOrAdmin
		}
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListTasksInput represents filters for listing a project's tasks.
type ListTasksInput struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *uint64
	Page           int
	PageSize       int
}

// ListForProject returns a project's tasks, newest first, filtered and
// paginated. Requires membership.
func (s *TaskService) ListForProject(projectID, requesterID uint64, input ListTasksInput) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.access.IsMember(projectID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	if !member {
		return nil, 0, ErrNotProjectMember
	}

	filter := repository.TaskFilter{
		Status:         input.Status,
		Priority:       input.Priority,
		AssignedUserID: input.AssignedUserID,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	tasks, total, err := s.taskRepo.ListForProject(projectID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64.
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
