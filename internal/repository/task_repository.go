package repository

import (
	"github.com/greenminds/greenminds-api/internal/database"
	"github.com/greenminds/greenminds-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListForProject retrieves a project's tasks with filtering and pagination
func (r *GormTaskRepository) ListForProject(projectID uint64, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("tasks.project_id = ?", projectID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedUserID != nil {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", *filter.AssignedUserID)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC, tasks.id DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	var tasks []models.Task
	if err := listQuery.Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByProjectIDs returns every task belonging to the given projects
func (r *GormTaskRepository) ListByProjectIDs(projectIDs []uint64) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := r.db.Where("project_id IN ?", projectIDs).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateStatus sets only the status column of a task
func (r *GormTaskRepository) UpdateStatus(taskID uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Update("status", status).Error
}

// Delete soft deletes a task and removes its assignments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// CreateAssignment adds a user assignment to a task
func (r *GormTaskRepository) CreateAssignment(assignment *models.TaskAssignment) error {
	return r.db.Create(assignment).Error
}

// CreateAssignments adds several user assignments at once
func (r *GormTaskRepository) CreateAssignments(assignments []models.TaskAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.Create(&assignments).Error
}

// DeleteAssignment removes an assignment, reporting how many rows were affected
func (r *GormTaskRepository) DeleteAssignment(taskID, userID uint64) (int64, error) {
	result := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskAssignment{})
	return result.RowsAffected, result.Error
}

// FindAssignment finds a specific task assignment
func (r *GormTaskRepository) FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignments lists a task's assignments with their users
func (r *GormTaskRepository) ListAssignments(taskID uint64) ([]models.TaskAssignment, error) {
	var assignments []models.TaskAssignment
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("assigned_at").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// CountAssignments counts the active assignments of a task
func (r *GormTaskRepository) CountAssignments(taskID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}
