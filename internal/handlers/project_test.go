package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/greenminds/greenminds-api/internal/constants"
	"github.com/greenminds/greenminds-api/internal/models"
	"github.com/greenminds/greenminds-api/internal/repository"
	"github.com/greenminds/greenminds-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
	service *services.ProjectService
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
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
	userRepo := repository.NewUserRepository(suite.db)
	suite.service = services.NewProjectService(projectRepo, userRepo, services.NewAccessService(projectRepo))
	suite.handler = NewProjectHandler(suite.service)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     "Test User",
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project, err := suite.service.Create(services.CreateProjectInput{Name: name}, ownerID)
	suite.Require().NoError(err)
	return project
}

// createAuthContext builds a request context with an authenticated user
func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	return c, w
}

func setParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// TestCreate_Success tests successful project creation
func (suite *ProjectHandlerTestSuite) TestCreate_Success() {
	user := suite.createTestUser("owner@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Greenhouse",
		"description": "Rooftop garden build-out",
	})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Greenhouse", response["name"])
	assert.Equal(suite.T(), "active", response["status"])
}

// TestCreate_MissingName tests validation of the required name
func (suite *ProjectHandlerTestSuite) TestCreate_MissingName() {
	user := suite.createTestUser("owner@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"description": "No name",
	})
	c, w := suite.createAuthContext("POST", "/api/projects", body, user.ID)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestGet_NotFound tests retrieval of a missing project
func (suite *ProjectHandlerTestSuite) TestGet_NotFound() {
	user := suite.createTestUser("user@example.com")

	c, w := suite.createAuthContext("GET", "/api/projects/9999", nil, user.ID)
	setParam(c, "id", "9999")

	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGet_Forbidden tests retrieval by a non-member
func (suite *ProjectHandlerTestSuite) TestGet_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	suite.createTestProject("Project", owner.ID)

	c, w := suite.createAuthContext("GET", "/api/projects/1", nil, outsider.ID)
	setParam(c, "id", "1")

	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestList_ReturnsPagination tests the list envelope
func (suite *ProjectHandlerTestSuite) TestList_ReturnsPagination() {
	user := suite.createTestUser("owner@example.com")
	suite.createTestProject("First", user.ID)
	suite.createTestProject("Second", user.ID)

	c, w := suite.createAuthContext("GET", "/api/projects", nil, user.ID)

	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "projects")
	assert.Contains(suite.T(), response, "pagination")

	pagination := response["pagination"].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), pagination["total"])
}

// TestDelete_ReturnsNoContent tests the delete response code
func (suite *ProjectHandlerTestSuite) TestDelete_ReturnsNoContent() {
	owner := suite.createTestUser("owner@example.com")
	suite.createTestProject("Project", owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, owner.ID)
	setParam(c, "id", "1")

	suite.handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
}

// TestDelete_AdminForbidden tests delete by a non-owner admin
func (suite *ProjectHandlerTestSuite) TestDelete_AdminForbidden() {
	owner := suite.createTestUser("owner@example.com")
	admin := suite.createTestUser("admin@example.com")
	project := suite.createTestProject("Project", owner.ID)
	_, err := suite.service.AddMember(project.ID, owner.ID, admin.Email, models.RoleAdmin)
	suite.Require().NoError(err)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1", nil, admin.ID)
	setParam(c, "id", "1")

	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestAddMember_Conflict tests adding a member twice
func (suite *ProjectHandlerTestSuite) TestAddMember_Conflict() {
	owner := suite.createTestUser("owner@example.com")
	member := suite.createTestUser("member@example.com")
	suite.createTestProject("Project", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"email": member.Email})

	c, w := suite.createAuthContext("POST", "/api/projects/1/members", body, owner.ID)
	setParam(c, "id", "1")
	suite.handler.AddMember(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	c, w = suite.createAuthContext("POST", "/api/projects/1/members", body, owner.ID)
	setParam(c, "id", "1")
	suite.handler.AddMember(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRemoveMember_OwnerProtected tests removing the owner's membership
func (suite *ProjectHandlerTestSuite) TestRemoveMember_OwnerProtected() {
	owner := suite.createTestUser("owner@example.com")
	suite.createTestProject("Project", owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/projects/1/members/1", nil, owner.ID)
	setParam(c, "id", "1")
	setParam(c, "userId", "1")

	suite.handler.RemoveMember(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
