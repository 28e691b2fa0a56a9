package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/greenminds/greenminds-api/internal/auth"
	"github.com/greenminds/greenminds-api/internal/config"
	"github.com/greenminds/greenminds-api/internal/database"
	"github.com/greenminds/greenminds-api/internal/handlers"
	"github.com/greenminds/greenminds-api/internal/middleware"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/greenminds/greenminds-api/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	accessService := services.NewAccessService(projectRepo)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, accessService)
	taskService := services.NewTaskService(taskRepo, projectRepo, accessService)
	assignmentService := services.NewAssignmentService(taskRepo, accessService)
	dashboardService := services.NewDashboardService(projectRepo, taskRepo)

	var rateLimitStore middleware.RateLimitStore = middleware.NewMemoryRateLimitStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rateLimitStore = middleware.NewRedisRateLimitStore(client)
		logrus.WithField("addr", cfg.RedisAddr).Info("rate limiting backed by redis")
	}

	router := handlers.SetupRouter(handlers.RouterDeps{
		Tokens:      tokens,
		UserRepo:    userRepo,
		ProjectRepo: projectRepo,
		TaskRepo:    taskRepo,
		Access:      accessService,

		Auth:       handlers.NewAuthHandler(authService, tokens),
		User:       handlers.NewUserHandler(userService),
		Project:    handlers.NewProjectHandler(projectService),
		Task:       handlers.NewTaskHandler(taskService),
		Assignment: handlers.NewAssignmentHandler(assignmentService),
		Dashboard:  handlers.NewDashboardHandler(dashboardService),

		RateLimitStore:  rateLimitStore,
		RateLimitMax:    cfg.RateLimitRequests,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	logrus.WithField("port", cfg.Port).Info("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
