package repository

import (
	"github.com/greenminds/greenminds-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user profile
	Update(user *models.User) error

	// Search finds users whose email, full name or username contains the query
	Search(query string, limit int) ([]models.User, error)
}

// ProjectFilter holds filtering options for listing a user's projects
type ProjectFilter struct {
	Status   *models.ProjectStatus
	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project together with its members, tasks and
	// task assignments
	Delete(id uint64) error

	// ListForUser lists projects the user owns or is a member of,
	// deduplicated, newest first
	ListForUser(userID uint64, filter ProjectFilter) ([]models.Project, int64, error)

	// ListProjectIDsForUser returns the IDs of every project the user
	// can access
	ListProjectIDsForUser(userID uint64) ([]uint64, error)

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with their users
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountMembers counts how many of the given user IDs are members
	// of the project
	CountMembers(projectID uint64, userIDs []uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *uint64
	Page           int
	PageSize       int
}

// TaskRepository defines the interface for task and assignment data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListForProject retrieves a project's tasks with filtering and
	// pagination, newest first
	ListForProject(projectID uint64, filter TaskFilter) ([]models.Task, int64, error)

	// ListByProjectIDs returns every task belonging to the given projects
	ListByProjectIDs(projectIDs []uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateStatus sets only the status column of a task
	UpdateStatus(taskID uint64, status models.TaskStatus) error

	// Delete soft deletes a task and removes its assignments
	Delete(id uint64) error

	// CreateAssignment adds a user assignment to a task
	CreateAssignment(assignment *models.TaskAssignment) error

	// CreateAssignments adds several user assignments at once
	CreateAssignments(assignments []models.TaskAssignment) error

	// DeleteAssignment removes an assignment, reporting how many rows
	// were affected
	DeleteAssignment(taskID, userID uint64) (int64, error)

	// FindAssignment finds a specific task assignment
	FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error)

	// ListAssignments lists a task's assignments with their users
	ListAssignments(taskID uint64) ([]models.TaskAssignment, error)

	// CountAssignments counts the active assignments of a task
	CountAssignments(taskID uint64) (int64, error)
}
