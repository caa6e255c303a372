package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/service"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) CreateUser(ctx context.Context, in service.CreateUserInput) (*model.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

const registerBody = `{
	"username": "pat",
	"password": "password1",
	"first_name": "Pat",
	"last_name": "Smith",
	"email": "pat@example.com"
}`

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAuthService)
		expectedStatus int
		expectedCode   string
		serviceCalled  bool
	}{
		{
			name: "new user is 201 with a token",
			body: registerBody,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
					Return(&model.User{Username: "pat", Role: "user"}, "signed-token", nil)
			},
			expectedStatus: http.StatusCreated,
			serviceCalled:  true,
		},
		{
			name: "duplicate username maps to 400",
			body: registerBody,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, "", errors.BadRequest("duplicate username: pat"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
			serviceCalled:  true,
		},
		{
			name:           "short password never reaches the service",
			body:           `{"username": "pat", "password": "abc", "first_name": "Pat", "last_name": "Smith", "email": "pat@example.com"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "invalid email never reaches the service",
			body:           `{"username": "pat", "password": "password1", "first_name": "Pat", "last_name": "Smith", "email": "nope"}`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
		{
			name:           "malformed json never reaches the service",
			body:           `{not json`,
			setupMock:      func(m *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockAuthService)
			tt.setupMock(mockSvc)

			e := newTestEcho()
			e.POST("/auth/register", NewAuthHandler(mockSvc).Register)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				var body map[string]interface{}
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedCode, body["code"])
			} else {
				var resp AuthResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "signed-token", resp.Token)
				assert.Equal(t, "pat", resp.User.Username)
			}
			if !tt.serviceCalled {
				mockSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials are 201 with a token", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "pat", "password1").
			Return(&model.User{Username: "pat"}, "signed-token", nil)

		e := newTestEcho()
		e.POST("/auth/login", NewAuthHandler(mockSvc).Login)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username": "pat", "password": "password1"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp AuthResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		mockSvc := new(MockAuthService)
		mockSvc.On("Login", mock.Anything, "pat", "wrong").
			Return(nil, "", errors.Unauthorized("invalid username or password"))

		e := newTestEcho()
		e.POST("/auth/login", NewAuthHandler(mockSvc).Login)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username": "pat", "password": "wrong"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "UNAUTHORIZED", body["code"])
	})

	t.Run("missing password never reaches the service", func(t *testing.T) {
		mockSvc := new(MockAuthService)

		e := newTestEcho()
		e.POST("/auth/login", NewAuthHandler(mockSvc).Login)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username": "pat"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}
