package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clinicbook/internal/auth"
	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

const bcryptCost = 12

// RegisterInput carries public registration data. Registration always
// produces a least-privileged user.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// CreateUserInput is the admin-only variant that may set a role.
type CreateUserInput struct {
	RegisterInput
	Role string
}

// AuthService handles registration and credential verification. Both paths
// return a signed token so a fresh user is immediately authenticated.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, string, error)
}

type authService struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService) AuthService {
	return &authService{users: users, jwt: jwt}
}

// Register creates a user with the least-privileged role.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	return s.create(ctx, in, auth.RoleUser)
}

// CreateUser is the admin path; unlike Register it may create admins.
func (s *authService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, string, error) {
	role := auth.Role(in.Role)
	switch role {
	case "":
		role = auth.RoleUser
	case auth.RoleUser, auth.RoleAdmin:
	default:
		return nil, "", errors.BadRequest("invalid role: " + in.Role)
	}
	return s.create(ctx, in.RegisterInput, role)
}

func (s *authService) create(ctx context.Context, in RegisterInput, role auth.Role) (*model.User, string, error) {
	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil && existing != nil {
		return nil, "", errors.BadRequest(fmt.Sprintf("duplicate username: %s", in.Username))
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", storeErr(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", errors.Internal(err)
	}

	user := &model.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hashed),
		Role:         string(role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", storeErr(err)
	}

	token, err := s.jwt.Issue(auth.Principal{Subject: user.Username, Role: role})
	if err != nil {
		return nil, "", errors.Internal(err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown username and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.Unauthorized("invalid username or password")
		}
		return nil, "", storeErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.Unauthorized("invalid username or password")
	}

	token, err := s.jwt.Issue(auth.Principal{Subject: user.Username, Role: auth.Role(user.Role)})
	if err != nil {
		return nil, "", errors.Internal(err)
	}
	return user, token, nil
}
