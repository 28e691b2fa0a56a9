package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(2, 10, 15)

	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, int64(15), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestNewPaginationResponse_ExactPages(t *testing.T) {
	resp := NewPaginationResponse(1, 10, 20)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestNewPaginationResponse_Empty(t *testing.T) {
	resp := NewPaginationResponse(1, 10, 0)
	assert.Equal(t, 0, resp.TotalPages)
}

func TestGetPaginationParams_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/projects", nil)

	params := GetPaginationParams(c)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestGetPaginationParams_ClampsOutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/projects?page=-3&limit=5000", nil)

	params := GetPaginationParams(c)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
}

func TestGetPaginationParams_Offset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/projects?page=3&limit=10", nil)

	params := GetPaginationParams(c)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 20, params.Offset)
}
