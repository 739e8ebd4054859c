package httpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"contactmanager/auth"
	"contactmanager/contact"
	"contactmanager/httpserver"
	"contactmanager/pkg/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testToken  = "valid-token"
	testUserID = "user-1"
)

func testConfig() *config.Config {
	cfg := &config.Config{Port: 8080, AllowOrigins: "*"}
	cfg.Auth.JWTSecret = "test-jwt-secret"
	return cfg
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) AddContact(ctx context.Context, ownerID string, in contact.Input) (contact.Contact, error) {
	args := m.Called(ctx, ownerID, in)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *MockContactService) ListContacts(ctx context.Context, ownerID string) ([]contact.Contact, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactService) UpdateContact(ctx context.Context, ownerID, id string, in contact.Input) (contact.Contact, error) {
	args := m.Called(ctx, ownerID, id, in)
	return args.Get(0).(contact.Contact), args.Error(1)
}

func (m *MockContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Authenticate(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// newTestServer wires mocks where testToken authenticates as testUserID and
// every other token is rejected.
func newTestServer(t *testing.T) (*httpserver.Server, *MockContactService, *MockAuthService) {
	t.Helper()
	contacts := new(MockContactService)
	authSvc := new(MockAuthService)
	authSvc.On("Authenticate", testToken).Return(testUserID, nil).Maybe()
	authSvc.On("Authenticate", mock.Anything).Return("", auth.ErrInvalidToken).Maybe()

	server, err := httpserver.New(
		httpserver.WithConfig(testConfig()),
		httpserver.WithContactService(contacts),
		httpserver.WithAuthService(authSvc),
	)
	require.NoError(t, err)
	return server, contacts, authSvc
}

func newJSONRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpserver.ErrorResponse {
	t.Helper()
	var resp httpserver.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}
