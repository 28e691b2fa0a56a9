package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenminds/greenminds-api/internal/auth"
	apierrors "github.com/greenminds/greenminds-api/internal/errors"
	"github.com/greenminds/greenminds-api/internal/middleware"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/greenminds/greenminds-api/internal/services"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Tokens      *auth.TokenManager
	UserRepo    repository.UserRepository
	ProjectRepo repository.ProjectRepository
	TaskRepo    repository.TaskRepository
	Access      *services.AccessService

	Auth       *AuthHandler
	User       *UserHandler
	Project    *ProjectHandler
	Task       *TaskHandler
	Assignment *AssignmentHandler
	Dashboard  *DashboardHandler

	RateLimitStore  middleware.RateLimitStore
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		apierrors.MethodNotAllowed(c, "")
	})
	router.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if deps.RateLimitStore != nil {
		api.Use(middleware.RateLimit(deps.RateLimitStore, deps.RateLimitMax, deps.RateLimitWindow))
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", deps.Auth.Register)
		authRoutes.POST("/login", deps.Auth.Login)
		authRoutes.POST("/logout", middleware.RequireAuth(deps.Tokens, deps.UserRepo), deps.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.Tokens, deps.UserRepo))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", deps.Auth.Me)
			users.PATCH("/me", deps.User.UpdateMe)
			users.GET("/search", deps.User.Search)
		}

		protected.GET("/dashboard/stats", deps.Dashboard.Stats)

		projects := protected.Group("/projects")
		{
			projects.GET("", deps.Project.List)
			projects.POST("", deps.Project.Create)

			project := projects.Group("/:id")
			project.Use(middleware.RequireProjectAccess(deps.ProjectRepo, deps.Access))
			{
				project.GET("", deps.Project.Get)
				project.PUT("", middleware.RequireProjectAdmin(deps.Access), deps.Project.Update)
				project.DELETE("", deps.Project.Delete)

				project.GET("/members", deps.Project.ListMembers)
				project.POST("/members", middleware.RequireProjectAdmin(deps.Access), deps.Project.AddMember)
				project.DELETE("/members/:userId", middleware.RequireProjectAdmin(deps.Access), deps.Project.RemoveMember)

				project.GET("/tasks", deps.Task.List)
				project.POST("/tasks", deps.Task.Create)
			}
		}

		tasks := protected.Group("/tasks/:id")
		tasks.Use(middleware.RequireTaskAccess(deps.TaskRepo, deps.Access))
		{
			tasks.GET("", deps.Task.Get)
			tasks.PUT("", deps.Task.Update)
			tasks.DELETE("", deps.Task.Delete)

			tasks.GET("/assignments", deps.Assignment.List)
			tasks.POST("/assignments", deps.Assignment.Create)
			tasks.DELETE("/assignments/:userId", deps.Assignment.Delete)
		}
	}

	return router
}
