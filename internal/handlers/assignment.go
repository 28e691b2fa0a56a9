package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenminds/greenminds-api/internal/dto"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/greenminds/greenminds-api/internal/middleware"
	"github.com/greenminds/greenminds-api/internal/services"
	"github.com/sirupsen/logrus"
)

// AssignmentHandler handles task assignment routes.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

func respondAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, "You are not a member of this project")
	case errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, "The user to assign is not a member of this project")
	case errors.Is(err, services.ErrAlreadyAssigned):
		apierrors.Conflict(c, "User is already assigned to this task")
	default:
		logrus.WithError(err).Error("assignment operation failed")
		apierrors.InternalError(c, "")
	}
}

// List handles GET /api/tasks/:id/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assignments, err := h.assignmentService.List(taskID, userID)
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// Create handles POST /api/tasks/:id/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if err := h.assignmentService.Assign(taskID, req.UserID, userID); err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User assigned to task"})
}

// Delete handles DELETE /api/tasks/:id/assignments/:userId
func (h *AssignmentHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.assignmentService.Unassign(taskID, targetUserID, userID); err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
