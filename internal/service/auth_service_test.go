package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clinicbook/internal/auth"
	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, username string, set *repository.UpdateSet) error {
	args := m.Called(ctx, username, set)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func testJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret")
}

func TestAuthService_Register(t *testing.T) {
	input := RegisterInput{
		Username:  "pat",
		Password:  "password1",
		FirstName: "Pat",
		LastName:  "Smith",
		Email:     "pat@example.com",
	}

	t.Run("new user gets the least-privileged role and a usable token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "pat").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.User).ID = 1
			}).Return(nil)

		svc := NewAuthService(mockRepo, testJWT())
		user, token, err := svc.Register(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, string(auth.RoleUser), user.Role)
		assert.NotEqual(t, "password1", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")))

		principal, err := testJWT().Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "pat", principal.Subject)
		assert.Equal(t, auth.RoleUser, principal.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "pat").Return(&model.User{Username: "pat"}, nil)

		svc := NewAuthService(mockRepo, testJWT())
		user, token, err := svc.Register(context.Background(), input)

		assert.Nil(t, user)
		assert.Empty(t, token)
		assert.Equal(t, errors.KindBadRequest, errors.KindOf(err))
		assert.EqualError(t, err, "duplicate username: pat")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_CreateUser(t *testing.T) {
	base := RegisterInput{
		Username:  "boss",
		Password:  "password1",
		FirstName: "Boss",
		LastName:  "Smith",
		Email:     "boss@example.com",
	}

	t.Run("admin role is allowed on this path", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "boss").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(mockRepo, testJWT())
		user, _, err := svc.CreateUser(context.Background(), CreateUserInput{RegisterInput: base, Role: "admin"})

		assert.NoError(t, err)
		assert.Equal(t, string(auth.RoleAdmin), user.Role)
	})

	t.Run("unknown role is rejected before any store call", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		svc := NewAuthService(mockRepo, testJWT())
		user, _, err := svc.CreateUser(context.Background(), CreateUserInput{RegisterInput: base, Role: "superuser"})

		assert.Nil(t, user)
		assert.Equal(t, errors.KindBadRequest, errors.KindOf(err))
		mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "boss").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewAuthService(mockRepo, testJWT())
		user, _, err := svc.CreateUser(context.Background(), CreateUserInput{RegisterInput: base})

		assert.NoError(t, err)
		assert.Equal(t, string(auth.RoleUser), user.Role)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &model.User{ID: 1, Username: "pat", PasswordHash: string(hash), Role: "user"}

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(*MockUserRepository)
		wantErr   bool
	}{
		{
			name:     "valid credentials",
			username: "pat",
			password: "password1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "pat").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			username: "pat",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "pat").Return(stored, nil)
			},
			wantErr: true,
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: "password1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewAuthService(mockRepo, testJWT())
			user, token, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, user)
				assert.Empty(t, token)
				assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
				// unknown user and wrong password read identically to the caller
				assert.EqualError(t, err, "invalid username or password")
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "pat", user.Username)
				assert.NotEmpty(t, token)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
