package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"conspect-web/internal/config"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/mocks"
	"conspect-web/internal/models"

	"go.uber.org/mock/gomock"
)

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext      *middlewares.AppContext
	Request         *http.Request
	Response        *httptest.ResponseRecorder
	MockController  *gomock.Controller
	MockSession     *mocks.MockSessionProvider
	MockLogin       *mocks.MockLoginProvider
	MockUploads     *mocks.MockUploadProcessor
	MockRateLimiter *mocks.MockRateLimitProvider
	MockPages       *mocks.MockPageRenderer
	LogHandler      *TestLogHandler
}

// DefaultConfig is a config with every section at its default value.
func DefaultConfig() *config.Config {
	oidc := config.DefaultOIDCConfig
	return &config.Config{
		Server:    config.DefaultServerConfig,
		Log:       config.DefaultLogConfig,
		CORS:      config.DefaultCORSConfig,
		Sessions:  config.DefaultSessionConfig,
		Backend:   config.DefaultBackendConfig,
		Auth:      withOIDC(config.DefaultAuthConfig, &oidc),
		Upload:    config.DefaultUploadConfig,
		RateLimit: config.DefaultRateLimitConfig,
		Jobs:      config.DefaultJobsConfig,
	}
}

func withOIDC(auth config.AuthConfig, oidc *config.OIDCConfig) config.AuthConfig {
	auth.OIDC = oidc
	return auth
}

func NewTestContext(t *testing.T) *TestContext {
	return newTestContext(t, nil)
}

// NewTestContextWithURL creates a complete test setup with sensible defaults
func NewTestContextWithURL(t *testing.T, method, url string) *TestContext {
	return newTestContext(t, httptest.NewRequest(method, url, nil))
}

// NewTestContextWithBody creates a test setup whose request carries body with the given content type.
func NewTestContextWithBody(t *testing.T, method, url, contentType string, body io.Reader) *TestContext {
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)
	return newTestContext(t, req)
}

func newTestContext(t *testing.T, req *http.Request) *TestContext {
	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)

	mockSession := mocks.NewMockSessionProvider(ctrl)
	mockLogin := mocks.NewMockLoginProvider(ctrl)
	mockUploads := mocks.NewMockUploadProcessor(ctrl)
	mockRateLimiter := mocks.NewMockRateLimitProvider(ctrl)
	mockPages := mocks.NewMockPageRenderer(ctrl)

	rr := httptest.NewRecorder()

	var ctx context.Context = context.Background()
	if req != nil {
		ctx = req.Context()
	}

	appCtx := middlewares.NewAppContext(ctx, DefaultConfig(), logger, mockSession, mockLogin, mockUploads, mockRateLimiter, mockPages)
	appCtx.Request = req
	appCtx.Response = rr

	return &TestContext{
		AppContext:      appCtx,
		Request:         req,
		Response:        rr,
		MockController:  ctrl,
		MockSession:     mockSession,
		MockLogin:       mockLogin,
		MockUploads:     mockUploads,
		MockRateLimiter: mockRateLimiter,
		MockPages:       mockPages,
		LogHandler:      logHandler,
	}
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

func (tc *TestContext) AssertLogContains(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

// AssertLogsContainMessage is like AssertLogContains but matches on a substring of the message.
func (tc *TestContext) AssertLogsContainMessage(t *testing.T, level slog.Level, message string) {
	t.Helper()
	for _, record := range tc.LogHandler.GetRecordsByLevel(level) {
		if strings.Contains(record.Message, message) {
			return
		}
	}
	t.Errorf("Expected a log entry with level %v containing: %s", level, message)
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

func (tc *TestContext) GetLogRecords() []TestLogRecord {
	return tc.LogHandler.GetRecords()
}

func (tc *TestContext) ClearLogRecords() {
	tc.LogHandler.Reset()
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d", expectedStatus, tc.Response.Code)
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

// AssertHeader checks a single response header
func (tc *TestContext) AssertHeader(t *testing.T, key, expected string) {
	t.Helper()
	if actual := tc.Response.Header().Get(key); actual != expected {
		t.Errorf("Expected header %s to be %q, got %q", key, expected, actual)
	}
}

func (tc *TestContext) AssertLocationHeader(t *testing.T, location string) {
	t.Helper()
	tc.AssertHeader(t, "Location", location)
}

func (tc *TestContext) GetResponseBody() string {
	return tc.Response.Body.String()
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// AssertJSONField checks a specific field in a JSON response
func (tc *TestContext) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	if actual, ok := response[field]; !ok || actual != expected {
		t.Errorf("Expected %s to be %s, got %v", field, expected, response[field])
	}
}

func (tc *TestContext) AssertJSONBool(t *testing.T, field string, expected bool) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualBool, ok := actual.(bool)
	if !ok {
		t.Errorf("Expected %s to be a boolean, got %T", field, actual)
		return
	}

	if actualBool != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, actualBool)
	}
}

// AssertJSONString checks a specific string field in a JSON response
func (tc *TestContext) AssertJSONString(t *testing.T, field string, expected string) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualString, ok := actual.(string)
	if !ok {
		t.Errorf("Expected %s to be a string, got %T", field, actual)
		return
	}

	if actualString != expected {
		t.Errorf("Expected %s to be %q, got %q", field, expected, actualString)
	}
}

// AssertUser validates a user object in the JSON response
func (tc *TestContext) AssertUser(t *testing.T, field string, expected *models.User) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	user, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be a user object, got %T", field, actual)
		return
	}

	userBytes, err := json.Marshal(expected)
	if err != nil {
		t.Errorf("Failed to marshal expected user: %v", err)
		return
	}

	var expectedUserMap map[string]interface{}
	if err := json.Unmarshal(userBytes, &expectedUserMap); err != nil {
		t.Errorf("Failed to unmarshal expected user: %v", err)
		return
	}

	for key, expectedValue := range expectedUserMap {
		if expectedValue == nil || expectedValue == "" {
			continue
		}

		if actualValue, keyExists := user[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// WithLogger allows you to override the default logger for specific tests
func (tc *TestContext) WithLogger(logger *slog.Logger) *TestContext {
	tc.AppContext.Logger = logger
	return tc
}

// WithSessionManager allows you to override the session manager with a different mock or implementation
func (tc *TestContext) WithSessionManager(sm middlewares.SessionProvider) *TestContext {
	tc.AppContext.SessionManager = sm
	return tc
}

// Helper to add query parameters to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	return tc
}

// Helper to add headers
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithRequest allows you to set a custom request (useful for tests that don't use URL constructor)
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// ExpectSessionIsAuthenticated sets up an expectation for session.IsAuthenticated()
func (tc *TestContext) ExpectSessionIsAuthenticated(result bool) *gomock.Call {
	return tc.MockSession.EXPECT().IsAuthenticated(tc.AppContext).Return(result)
}

// ExpectSessionGetUser sets up an expectation for session.GetUser()
func (tc *TestContext) ExpectSessionGetUser(user *models.User, ok bool) *gomock.Call {
	return tc.MockSession.EXPECT().GetUser(tc.AppContext).Return(user, ok)
}

// ExpectRender sets up an expectation that page is rendered and captures the data it was rendered with.
func (tc *TestContext) ExpectRender(page string, captured *any) *gomock.Call {
	return tc.MockPages.EXPECT().Render(gomock.Any(), page, gomock.Any()).DoAndReturn(
		func(_ io.Writer, _ string, data any) error {
			if captured != nil {
				*captured = data
			}
			return nil
		})
}
