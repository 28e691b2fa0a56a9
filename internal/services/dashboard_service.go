package services

import (
	"fmt"
	"math"
	"time"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
)

// DashboardStats aggregates a user's projects and tasks for the
// dashboard view.
type DashboardStats struct {
	ProjectsCount        int                  `json:"projectsCount"`
	TasksCount           TasksCount           `json:"tasksCount"`
	PriorityDistribution PriorityDistribution `json:"priorityDistribution"`
	AverageTaskTime      AverageTaskTime      `json:"averageTaskTime"`
	OverdueTasks         OverdueTasks         `json:"overdueTasks"`
}

type TasksCount struct {
	Total      int `json:"total"`
	Unassigned int `json:"unassigned"`
	Assigned   int `json:"assigned"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type PriorityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// AverageTaskTime reports the mean actual hours of completed tasks,
// split into 8-hour work days.
type AverageTaskTime struct {
	Days  int `json:"days"`
	Hours int `json:"hours"`
}

type OverdueTasks struct {
	Unassigned int `json:"unassigned"`
	Assigned   int `json:"assigned"`
}

// DashboardService computes per-user statistics across all accessible
// projects.
type DashboardService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// Stats builds the dashboard statistics for a user.
func (s *DashboardService) Stats(userID uint64) (*DashboardStats, error) {
	projectIDs, err := s.projectRepo.ListProjectIDsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, err := s.taskRepo.ListByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := &DashboardStats{
		ProjectsCount: len(projectIDs),
		TasksCount:    TasksCount{Total: len(tasks)},
	}

	var completedHours float64
	var completedCount int
	now := time.Now()

	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusUnassigned:
			stats.TasksCount.Unassigned++
		case models.TaskStatusAssigned:
			stats.TasksCount.Assigned++
		case models.TaskStatusInProgress:
			stats.TasksCount.InProgress++
		case models.TaskStatusDone:
			stats.TasksCount.Done++
		}

		switch task.Priority {
		case models.TaskPriorityHigh:
			stats.PriorityDistribution.High++
		case models.TaskPriorityMedium:
			stats.PriorityDistribution.Medium++
		case models.TaskPriorityLow:
			stats.PriorityDistribution.Low++
		}

		if task.Status == models.TaskStatusDone && task.ActualHours != nil {
			completedHours += *task.ActualHours
			completedCount++
		}

		if task.DueDate != nil && task.DueDate.Before(now) {
			switch task.Status {
			case models.TaskStatusUnassigned:
				stats.OverdueTasks.Unassigned++
			case models.TaskStatusAssigned:
				stats.OverdueTasks.Assigned++
			}
		}
	}

	if completedCount > 0 {
		average := completedHours / float64(completedCount)
		stats.AverageTaskTime.Days = int(average / 8)
		stats.AverageTaskTime.Hours = int(math.Round(math.Mod(average, 8)))
	}

	return stats, nil
}
