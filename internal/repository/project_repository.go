package repository

import (
	"github.com/greenminds/greenminds-api/internal/database"
	"github.com/greenminds/greenminds-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).
			Select("id").
			Where("project_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskIDs).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// accessibleProjects scopes a query to projects the user owns or is a member of
func (r *GormProjectRepository) accessibleProjects(userID uint64) *gorm.DB {
	memberProjectIDs := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	return r.db.Model(&models.Project{}).
		Where("projects.owner_id = ? OR projects.id IN (?)", userID, memberProjectIDs)
}

// ListForUser lists projects the user owns or is a member of, deduplicated
func (r *GormProjectRepository) ListForUser(userID uint64, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.accessibleProjects(userID)

	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC, projects.id DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	var projects []models.Project
	if err := listQuery.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListProjectIDsForUser returns the IDs of every project the user can access
func (r *GormProjectRepository) ListProjectIDsForUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.accessibleProjects(userID).
		Order("projects.id").
		Pluck("projects.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers counts how many of the given user IDs are members of the project
func (r *GormProjectRepository) CountMembers(projectID uint64, userIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id IN ?", projectID, userIDs).
		Count(&count).Error
	return count, err
}
