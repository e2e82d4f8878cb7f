package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tenant-portal-backend/internal/config"
	"tenant-portal-backend/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: conn}), &database.Options{SkipMigrate: true})
	require.NoError(t, err)

	return SetupRoutes(db, &config.Config{
		JWTSecret:      "test-secret",
		BcryptCost:     4,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func TestSetupRoutesRegistersBothSlashForms(t *testing.T) {
	router := setupRouter(t)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"GET /api/organizations",
		"POST /api/organizations/",
		"GET /api/organizations/:id/",
		"PUT /api/organizations/:id",
		"PATCH /api/organizations/:id/",
		"DELETE /api/organizations/:id/",
		"GET /api/organizations/:id/users/",
		"GET /api/users/",
		"POST /api/users",
		"GET /api/users/:id/",
		"PATCH /api/users/:id/",
		"DELETE /api/users/:id",
		"POST /api/auth/signup/",
		"POST /api/auth/login/",
		"POST /api/auth/logout/",
		"GET /api/auth/profile/",
		"PUT /api/auth/update-profile/",
		"POST /api/auth/user-registration/",
		"GET /api/organizations-list/",
		"GET /health",
		"GET /health/ready",
		"GET /health/live",
		"GET /metrics",
		"GET /swagger/*any",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/logout/"},
		{http.MethodGet, "/api/auth/profile/"},
		{http.MethodPut, "/api/auth/update-profile/"},
	} {
		rec := httptest.NewRecorder()
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}

func TestLivenessAndMetricsAreServed(t *testing.T) {
	router := setupRouter(t)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health/live", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
