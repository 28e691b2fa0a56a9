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

// AccessServiceTestSuite defines the test suite for AccessService
type AccessServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AccessService
}

// SetupTest runs before each test
func (suite *AccessServiceTestSuite) SetupTest() {
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

	suite.service = NewAccessService(repository.NewProjectRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *AccessServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AccessServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
	}
	suite.db.Create(user)
	return user
}

func (suite *AccessServiceTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
		Status:  models.ProjectStatusActive,
	}
	suite.db.Create(project)
	return project
}

func (suite *AccessServiceTestSuite) createTestMember(projectID, userID uint64, role models.ProjectRole) *models.ProjectMember {
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	suite.db.Create(member)
	return member
}

// TestIsMember_OwnerWithoutMembershipRow tests that the owner counts as
// a member even when the owner's membership row is missing
func (suite *AccessServiceTestSuite) TestIsMember_OwnerWithoutMembershipRow() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)

	member, err := suite.service.IsMember(project.ID, owner.ID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), member)
}

// TestIsMember_WithMembershipRow tests a regular member
func (suite *AccessServiceTestSuite) TestIsMember_WithMembershipRow() {
	owner := suite.createTestUser("owner@example.com")
	user := suite.createTestUser("member@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.createTestMember(project.ID, user.ID, models.RoleMember)

	member, err := suite.service.IsMember(project.ID, user.ID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), member)
}

// TestIsMember_NonMember tests a user with no relationship to the project
func (suite *AccessServiceTestSuite) TestIsMember_NonMember() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Project", owner.ID)

	member, err := suite.service.IsMember(project.ID, outsider.ID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), member)
}

// TestIsMember_AbsentProject tests that a missing project yields false
// with no error
func (suite *AccessServiceTestSuite) TestIsMember_AbsentProject() {
	user := suite.createTestUser("user@example.com")

	member, err := suite.service.IsMember(9999, user.ID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), member)
}

// TestIsAdmin_Owner tests that the owner is always an admin
func (suite *AccessServiceTestSuite) TestIsAdmin_Owner() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Project", owner.ID)

	admin, err := suite.service.IsAdmin(project.ID, owner.ID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), admin)
}

// TestIsAdmin_AdminMember tests a member with the admin role
func (suite *AccessServiceTestSuite) TestIsAdmin_AdminMember() {
	owner := suite.createTestUser("owner@example.com")
	user := suite.createTestUser("admin@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.createTestMember(project.ID, user.ID, models.RoleAdmin)

	admin, err := suite.service.IsAdmin(project.ID, user.ID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), admin)
}

// TestIsAdmin_RegularMember tests that the member role is not admin
func (suite *AccessServiceTestSuite) TestIsAdmin_RegularMember() {
	owner := suite.createTestUser("owner@example.com")
	user := suite.createTestUser("member@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.createTestMember(project.ID, user.ID, models.RoleMember)

	admin, err := suite.service.IsAdmin(project.ID, user.ID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), admin)
}

// TestIsAdmin_ImpliesMember tests that every admin is also a member
func (suite *AccessServiceTestSuite) TestIsAdmin_ImpliesMember() {
	owner := suite.createTestUser("owner@example.com")
	user := suite.createTestUser("admin@example.com")
	project := suite.createTestProject("Project", owner.ID)
	suite.createTestMember(project.ID, user.ID, models.RoleAdmin)

	for _, userID := range []uint64{owner.ID, user.ID} {
		admin, err := suite.service.IsAdmin(project.ID, userID)
		assert.NoError(suite.T(), err)
		member, err := suite.service.IsMember(project.ID, userID)
		assert.NoError(suite.T(), err)
		assert.True(suite.T(), admin)
		assert.True(suite.T(), member)
	}
}

// TestSuite runs the test suite
func TestAccessServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}
