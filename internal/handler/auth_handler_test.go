package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/auth"
	"github.com/novabank/banking/internal/models"
)

// ---- mock implementations ----

type mockAuthenticator struct {
	registerFn func(auth.RegisterCommand) (*models.Profile, string, error)
	loginFn    func(auth.LoginCommand) (string, error)
	refreshFn  func(string) (string, error)
}

func (m *mockAuthenticator) Register(ctx context.Context, cmd auth.RegisterCommand) (*models.Profile, string, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, "", fmt.Errorf("not configured")
}

func (m *mockAuthenticator) Login(ctx context.Context, cmd auth.LoginCommand) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return "", fmt.Errorf("not configured")
}

func (m *mockAuthenticator) RefreshToken(ctx context.Context, token string) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(token)
	}
	return "", fmt.Errorf("not configured")
}

func newAuthTestRouter(a Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(a)
	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)
	return r
}

func registerBody() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Asha",
		"lastName":  "Rao",
		"email":     "asha@example.com",
		"password":  "correct-horse",
	}
}

// ---- tests ----

func TestRegister(t *testing.T) {
	testProfile := &models.Profile{ID: "usr-001", FirstName: "Asha", Email: "asha@example.com"}

	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(auth.RegisterCommand) (*models.Profile, string, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: registerBody(),
			registerFn: func(cmd auth.RegisterCommand) (*models.Profile, string, error) {
				return testProfile, "token-123", nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "conflict - email taken",
			body: registerBody(),
			registerFn: func(cmd auth.RegisterCommand) (*models.Profile, string, error) {
				return nil, "", auth.ErrEmailTaken
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]interface{}{"firstName": "Asha", "lastName": "Rao", "email": "nope", "password": "correct-horse"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - short password",
			body:           map[string]interface{}{"firstName": "Asha", "lastName": "Rao", "email": "asha@example.com", "password": "short"},
			registerFn:     nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthenticator{registerFn: tt.registerFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(auth.LoginCommand) (string, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"email": "asha@example.com", "password": "correct-horse"},
			loginFn: func(cmd auth.LoginCommand) (string, error) {
				return "token-123", nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unauthorized - wrong password",
			body: map[string]interface{}{"email": "asha@example.com", "password": "wrong"},
			loginFn: func(cmd auth.LoginCommand) (string, error) {
				return "", auth.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "bad request - missing password",
			body:           map[string]interface{}{"email": "asha@example.com"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthenticator{loginFn: tt.loginFn})
			w := doRequest(router, http.MethodPost, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
