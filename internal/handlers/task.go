package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenminds/greenminds-api/internal/dto"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/greenminds/greenminds-api/internal/middleware"
	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/services"
	"github.com/greenminds/greenminds-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// TaskHandler handles task CRUD routes.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// respondTaskError maps service errors to HTTP responses.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, "You are not a member of this project")
	case errors.Is(err, services.ErrNotTaskOwnerOrAdmin):
		apierrors.Forbidden(c, "Only the task creator or a project admin can delete this task")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.BadRequest(c, "Title cannot be empty")
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, "One or more assignees are not members of this project")
	default:
		logrus.WithError(err).Error("task operation failed")
		apierrors.InternalError(c, "")
	}
}

// List handles GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if s := c.Query("status"); s != "" {
		switch models.TaskStatus(s) {
		case models.TaskStatusUnassigned, models.TaskStatusAssigned,
			models.TaskStatusInProgress, models.TaskStatusDone:
			v := models.TaskStatus(s)
			input.Status = &v
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	if p := c.Query("priority"); p != "" {
		switch models.TaskPriority(p) {
		case models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow:
			v := models.TaskPriority(p)
			input.Priority = &v
		default:
			apierrors.BadRequest(c, "Invalid priority filter")
			return
		}
	}

	if a := c.Query("assigned_user_id"); a != "" {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_user_id filter")
			return
		}
		input.AssignedUserID = &id
	}

	tasks, total, err := h.taskService.ListForProject(projectID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      dto.ToTaskDTOs(tasks),
		Pagination: utils.NewPaginationResponse(params.Page, params.Limit, total),
	})
}

// Create handles POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.taskService.Create(projectID, services.CreateTaskInput{
		Title:           req.Title,
		Description:     req.Description,
		Priority:        models.TaskPriority(req.Priority),
		DueDate:         req.DueDate,
		EstimatedHours:  req.EstimatedHours,
		AssignedUserIDs: req.AssignedUserIDs,
	}, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	resp := dto.TaskResponse{Task: dto.ToTaskDTO(result.Task)}
	if result.Warning != nil {
		resp.Warning = result.Warning.Error()
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// Update handles PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	input := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		ClearDueDate:   req.ClearDueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, err := h.taskService.Update(taskID, input, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
