package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindCreateRequest(t *testing.T, body string) (createCourseRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/courses", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req createCourseRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestCreateCourseRequest_RequiresOnlyPresence(t *testing.T) {
	// A two-character title and a free-form level are acceptable payloads;
	// binding checks presence, not content rules.
	req, err := bindCreateRequest(t, `{"title":"Go","level":"expert","price":10}`)
	require.NoError(t, err)
	assert.Equal(t, "Go", req.Title)
	assert.Equal(t, "expert", req.Level)
}

func TestCreateCourseRequest_RejectsMissingTitle(t *testing.T) {
	_, err := bindCreateRequest(t, `{"description":"no title"}`)
	assert.Error(t, err)
}

func TestCreateCourseRequest_RejectsMalformedOptionalFields(t *testing.T) {
	_, err := bindCreateRequest(t, `{"title":"ok","thumbnail_url":"not a url"}`)
	assert.Error(t, err)

	_, err = bindCreateRequest(t, `{"title":"ok","price":-1}`)
	assert.Error(t, err)
}
