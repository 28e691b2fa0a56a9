package services

import (
	"testing"

	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AssignmentServiceTestSuite defines the test suite for AssignmentService
type AssignmentServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *AssignmentService
	tasks    *TaskService
	projects *ProjectService
}

// SetupTest runs before each test
func (suite *AssignmentServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskAssignment{},
	)
	suite.Require().NoError(err)

	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	access := NewAccessService(projectRepo)
	suite.service = NewAssignmentService(taskRepo, access)
	suite.tasks = NewTaskService(taskRepo, projectRepo, access)
	suite.projects = NewProjectService(projectRepo, userRepo, access)
}

// TearDownTest runs after each test
func (suite *AssignmentServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AssignmentServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
	}
	suite.db.Create(user)
	return user
}

func (suite *AssignmentServiceTestSuite) createProjectWithTask(ownerID uint64) (*models.Project, *models.Task) {
	project, err := suite.projects.Create(CreateProjectInput{Name: "Project"}, ownerID)
	suite.Require().NoError(err)
	result, err := suite.tasks.Create(project.ID, CreateTaskInput{Title: "Task"}, ownerID)
	suite.Require().NoError(err)
	return project, result.Task
}

func (suite *AssignmentServiceTestSuite) addMember(projectID, requesterID uint64, email string) *models.ProjectMember {
	member, err := suite.projects.AddMember(projectID, requesterID, email, models.RoleMember)
	suite.Require().NoError(err)
	return member
}

func (suite *AssignmentServiceTestSuite) taskStatus(taskID uint64) models.TaskStatus {
	var task models.Task
	suite.Require().NoError(suite.db.First(&task, taskID).Error)
	return task.Status
}

// TestAssign_UnassignedBecomesAssigned tests the automatic status edge
func (suite *AssignmentServiceTestSuite) TestAssign_UnassignedBecomesAssigned() {
	owner := suite.createTestUser("owner@example.com")
	_, task := suite.createProjectWithTask(owner.ID)

	err := suite.service.Assign(task.ID, owner.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusAssigned, suite.taskStatus(task.ID))
}

// TestAssign_DoubleAssignConflicts tests assigning the same user twice
func (suite *AssignmentServiceTestSuite) TestAssign_DoubleAssignConflicts() {
	owner := suite.createTestUser("owner@example.com")
	_, task := suite.createProjectWithTask(owner.ID)

	err := suite.service.Assign(task.ID, owner.ID, owner.ID)
	suite.Require().NoError(err)

	err = suite.service.Assign(task.ID, owner.ID, owner.ID)
	assert.ErrorIs(suite.T(), err, ErrAlreadyAssigned)
}

// TestAssign_TargetMustBeMember tests assigning a non-member
func (suite *AssignmentServiceTestSuite) TestAssign_TargetMustBeMember() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	_, task := suite.createProjectWithTask(owner.ID)

	err := suite.service.Assign(task.ID, outsider.ID, owner.ID)
	assert.ErrorIs(suite.T(), err, ErrAssigneeNotMember)
	assert.Equal(suite.T(), models.TaskStatusUnassigned, suite.taskStatus(task.ID))
}

// TestAssign_RequesterMustBeMember tests assignment by a non-member
func (suite *AssignmentServiceTestSuite) TestAssign_RequesterMustBeMember() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	_, task := suite.createProjectWithTask(owner.ID)

	err := suite.service.Assign(task.ID, owner.ID, outsider.ID)
	assert.ErrorIs(suite.T(), err, ErrNotProjectMember)
}

// TestAssign_TaskNotFound tests assignment on a missing task
func (suite *AssignmentServiceTestSuite) TestAssign_TaskNotFound() {
	owner := suite.createTestUser("owner@example.com")

	err := suite.service.Assign(9999, owner.ID, owner.ID)
	assert.ErrorIs(suite.T(), err, ErrTaskNotFound)
}

// TestAssign_DoesNotDowngradeInProgress tests that assigning another
// user leaves an in_progress status untouched
func (suite *AssignmentServiceTestSuite) TestAssign_DoesNotDowngradeInProgress() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	project, task := suite.createProjectWithTask(owner.ID)
	suite.addMember(project.ID, owner.ID, member.Email)

	suite.Require().NoError(suite.service.Assign(task.ID, owner.ID, owner.ID))
	inProgress := models.TaskStatusInProgress
	_, err := suite.tasks.Update(task.ID, UpdateTaskInput{Status: &inProgress}, owner.ID)
	suite.Require().NoError(err)

	err = suite.service.Assign(task.ID, member.ID, owner.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, suite.taskStatus(task.ID))
}

// TestUnassign_LastAssigneeRevertsToUnassigned tests the automatic
// fallback when the assignment set empties
func (suite *AssignmentServiceTestSuite) TestUnassign_LastAssigneeRevertsToUnassigned() {
	owner := suite.createTestUser("owner@example.com")
	_, task := suite.createProjectWithTask(owner.ID)
	suite.Require().NoError(suite.service.Assign(task.ID, owner.ID, owner.ID))

	err := suite.service.Unassign(task.ID, owner.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusUnassigned, suite.taskStatus(task.ID))
}

// TestUnassign_RemainingAssigneesKeepStatus tests that the status holds
// while assignees remain
func (suite *AssignmentServiceTestSuite) TestUnassign_RemainingAssigneesKeepStatus() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	project, task := suite.createProjectWithTask(owner.ID)
	suite.addMember(project.ID, owner.ID, member.Email)

	suite.Require().NoError(suite.service.Assign(task.ID, owner.ID, owner.ID))
	suite.Require().NoError(suite.service.Assign(task.ID, member.ID, owner.ID))

	err := suite.service.Unassign(task.ID, member.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusAssigned, suite.taskStatus(task.ID))
}

// TestUnassign_NonAssignedIsNoOp tests that unassigning a user who is
// not assigned succeeds without side effects
func (suite *AssignmentServiceTestSuite) TestUnassign_NonAssignedIsNoOp() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	project, task := suite.createProjectWithTask(owner.ID)
	suite.addMember(project.ID, owner.ID, member.Email)
	suite.Require().NoError(suite.service.Assign(task.ID, owner.ID, owner.ID))

	err := suite.service.Unassign(task.ID, member.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusAssigned, suite.taskStatus(task.ID))
}

// TestUnassign_DoneRevertsWhenEmptied tests that even a done task falls
// back to unassigned once every assignment is gone
func (suite *AssignmentServiceTestSuite) TestUnassign_DoneRevertsWhenEmptied() {
	owner := suite.createTestUser("owner@example.com")
	_, task := suite.createProjectWithTask(owner.ID)
	suite.Require().NoError(suite.service.Assign(task.ID, owner.ID, owner.ID))

	done := models.TaskStatusDone
	_, err := suite.tasks.Update(task.ID, UpdateTaskInput{Status: &done}, owner.ID)
	suite.Require().NoError(err)

	err = suite.service.Unassign(task.ID, owner.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusUnassigned, suite.taskStatus(task.ID))
}

// TestList_ReturnsAssignmentsWithUsers tests assignment listing
func (suite *AssignmentServiceTestSuite) TestList_ReturnsAssignmentsWithUsers() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	project, task := suite.createProjectWithTask(owner.ID)
	suite.addMember(project.ID, owner.ID, member.Email)

	suite.Require().NoError(suite.service.Assign(task.ID, member.ID, owner.ID))

	assignments, err := suite.service.List(task.ID, owner.ID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), assignments, 1)
	assert.Equal(suite.T(), member.ID, assignments[0].UserID)
	assert.Equal(suite.T(), owner.ID, assignments[0].AssignedBy)
	assert.Equal(suite.T(), member.Email, assignments[0].User.Email)
}

// TestList_RequiresMembership tests listing by a non-member
func (suite *AssignmentServiceTestSuite) TestList_RequiresMembership() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	_, task := suite.createProjectWithTask(owner.ID)

	_, err := suite.service.List(task.ID, outsider.ID)
	assert.ErrorIs(suite.T(), err, ErrNotProjectMember)
}

// TestSuite runs the test suite
func TestAssignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceTestSuite))
}
