package handlers

import (
	"errors"
	"net/http"
	"testing"

	"tenant-portal-backend/internal/database"
	"tenant-portal-backend/internal/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
)

// HealthHandlerTestSuite checks the health endpoints against a mocked connection
type HealthHandlerTestSuite struct {
	suite.Suite
	mock      sqlmock.Sqlmock
	httpSuite *testutils.HTTPTestSuite
}

func (suite *HealthHandlerTestSuite) SetupTest() {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(suite.T(), err)
	suite.mock = mock

	// gorm pings once while opening
	mock.ExpectPing()
	db, err := database.Open(postgres.New(postgres.Config{Conn: conn}), &database.Options{SkipMigrate: true})
	require.NoError(suite.T(), err)

	handler := NewHealthHandler(db)
	suite.httpSuite = testutils.SetupHTTPTest()
	suite.httpSuite.Router.GET("/health", handler.Health)
	suite.httpSuite.Router.GET("/health/ready", handler.Ready)
	suite.httpSuite.Router.GET("/health/live", handler.Live)
}

func (suite *HealthHandlerTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *HealthHandlerTestSuite) TestHealthy() {
	suite.mock.ExpectPing()

	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health", nil)

	var response HealthResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), "healthy", response.Status)
	assert.Equal(suite.T(), Version, response.Version)
	assert.Equal(suite.T(), "healthy", response.Services["database"])
}

func (suite *HealthHandlerTestSuite) TestUnhealthy() {
	suite.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health", nil)

	var response HealthResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusServiceUnavailable, &response)
	assert.Equal(suite.T(), "unhealthy", response.Status)
	assert.Contains(suite.T(), response.Services["database"], "connection refused")
}

func (suite *HealthHandlerTestSuite) TestReady() {
	suite.mock.ExpectPing()

	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health/ready", nil)

	var response map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), true, response["ready"])
}

func (suite *HealthHandlerTestSuite) TestNotReady() {
	suite.mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health/ready", nil)

	var response map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusServiceUnavailable, &response)
	assert.Equal(suite.T(), false, response["ready"])
}

func (suite *HealthHandlerTestSuite) TestLive() {
	recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/health/live", nil)

	var response map[string]interface{}
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &response)
	assert.Equal(suite.T(), true, response["alive"])
}

func TestHealthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HealthHandlerTestSuite))
}
