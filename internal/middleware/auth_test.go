package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthkonnect/healthkonnect-api/internal/utils"
)

func authProbe() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(CtxUserID),
			"role":   c.GetString(CtxUserRole),
		})
	})
	r.GET("/admin", AuthMiddleware(), RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	w := doRequest(authProbe(), "", "/probe")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "authorization header required", body["error"]["message"])
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	w := doRequest(authProbe(), "Bearer bogus", "/probe")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	token, err := utils.GenerateJWT("abc123", "doctor")
	require.NoError(t, err)

	w := doRequest(authProbe(), "Bearer "+token, "/probe")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body["userId"])
	assert.Equal(t, "doctor", body["role"])
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")

	adminToken, err := utils.GenerateJWT("admin1", "admin")
	require.NoError(t, err)
	patientToken, err := utils.GenerateJWT("patient1", "patient")
	require.NoError(t, err)

	r := authProbe()

	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+adminToken, "/admin").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "Bearer "+patientToken, "/admin").Code)
}
