package dto

import (
	"time"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/utils"
)

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title           string     `json:"title" binding:"required,max=200"`
	Description     string     `json:"description" binding:"omitempty,max=1000"`
	Priority        string     `json:"priority" binding:"omitempty,oneof=high medium low"`
	DueDate         *time.Time `json:"due_date"`
	EstimatedHours  *float64   `json:"estimated_hours" binding:"omitempty,gt=0"`
	AssignedUserIDs []uint64   `json:"assigned_user_ids"`
}

// UpdateTaskRequest represents a partial task update. A nil field is
// left untouched; clear_due_date removes the due date.
type UpdateTaskRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string    `json:"description" binding:"omitempty,max=1000"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=high medium low"`
	Status         *string    `json:"status" binding:"omitempty,oneof=unassigned assigned in_progress done"`
	DueDate        *time.Time `json:"due_date"`
	ClearDueDate   bool       `json:"clear_due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gt=0"`
	ActualHours    *float64   `json:"actual_hours" binding:"omitempty,gt=0"`
}

// AssignRequest represents the assignment request body
type AssignRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// TaskDTO represents task data in responses
type TaskDTO struct {
	ID             uint64     `json:"id"`
	ProjectID      uint64     `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	CreatedBy      uint64     `json:"created_by"`
	Creator        *UserDTO   `json:"creator,omitempty"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	Assignees      []UserDTO  `json:"assignees"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AssignmentDTO represents a task assignment in responses
type AssignmentDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	UserID     uint64    `json:"user_id"`
	AssignedBy uint64    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
	User       *UserDTO  `json:"user,omitempty"`
}

// TaskResponse wraps a single task; warning is set when the task was
// created but its initial assignments could not be written.
type TaskResponse struct {
	Task    TaskDTO `json:"task"`
	Warning string  `json:"warning,omitempty"`
}

// TaskListResponse is the paginated task list
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task *models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		ProjectID:      task.ProjectID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       string(task.Priority),
		Status:         string(task.Status),
		CreatedBy:      task.CreatedBy,
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		Assignees:      []UserDTO{},
	}
	if task.Creator.ID != 0 {
		creator := ToUserDTO(&task.Creator)
		dto.Creator = &creator
	}
	for i := range task.Assignments {
		if task.Assignments[i].User.ID != 0 {
			dto.Assignees = append(dto.Assignees, ToUserDTO(&task.Assignments[i].User))
		}
	}
	dto.CreatedAt = task.CreatedAt
	dto.UpdatedAt = task.UpdatedAt
	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = ToTaskDTO(&tasks[i])
	}
	return dtos
}

// ToAssignmentDTO converts a TaskAssignment model to AssignmentDTO
func ToAssignmentDTO(assignment *models.TaskAssignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:         assignment.ID,
		TaskID:     assignment.TaskID,
		UserID:     assignment.UserID,
		AssignedBy: assignment.AssignedBy,
		AssignedAt: assignment.AssignedAt,
	}
	if assignment.User.ID != 0 {
		user := ToUserDTO(&assignment.User)
		dto.User = &user
	}
	return dto
}

// ToAssignmentDTOs converts a slice of TaskAssignment models
func ToAssignmentDTOs(assignments []models.TaskAssignment) []AssignmentDTO {
	dtos := make([]AssignmentDTO, len(assignments))
	for i := range assignments {
		dtos[i] = ToAssignmentDTO(&assignments[i])
	}
	return dtos
}
