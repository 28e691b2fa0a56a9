package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenminds/greenminds-api/internal/constants"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/greenminds/greenminds-api/internal/services"
	"gorm.io/gorm"
)

// RequireProjectAccess checks that the user is a member (or owner) of
// the project named in the URL. The project is stored in the context.
// A missing project is 404; an authenticated non-member gets 403.
func RequireProjectAccess(projectRepo repository.ProjectRepository, access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		project, err := projectRepo.FindByID(projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		member, err := access.IsMember(projectID, userID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !member {
			apierrors.Forbidden(c, "You are not a member of this project")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Next()
	}
}

// RequireProjectAdmin checks that the user is the project owner or an
// admin member. Must run after RequireProjectAccess.
func RequireProjectAdmin(access *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		admin, err := access.IsAdmin(projectID, userID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !admin {
			apierrors.Forbidden(c, "Admin access to this project is required")
			c.Abort()
			return
		}

		c.Next()
	}
}
