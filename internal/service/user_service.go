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

// UserService exposes user administration operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, actor auth.Principal, username string, fields map[string]interface{}) (*model.User, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	users repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no user found: %s", username))
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// Update applies a sparse patch to a user record. Non-admin actors patch
// through a translation table without the role column, so a role key from
// them is ignored like any other unknown key; only admins can change roles.
// A plaintext password field is hashed and rewritten to the hash column
// before the statement is built.
func (s *userService) Update(ctx context.Context, actor auth.Principal, username string, fields map[string]interface{}) (*model.User, error) {
	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		patch[k] = v
	}
	if pw, ok := patch["password"]; ok {
		str, ok := pw.(string)
		if !ok || str == "" {
			return nil, errors.BadRequest("invalid password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(str), bcryptCost)
		if err != nil {
			return nil, errors.Internal(err)
		}
		delete(patch, "password")
		patch["password_hash"] = string(hashed)
	}

	table := repository.UserUpdateFields
	if actor.Role == auth.RoleAdmin {
		table = repository.AdminUserUpdateFields
		if role, ok := patch["role"]; ok {
			str, _ := role.(string)
			if str != string(auth.RoleUser) && str != string(auth.RoleAdmin) {
				return nil, errors.BadRequest(fmt.Sprintf("invalid role: %v", role))
			}
		}
	}

	set, err := repository.BuildPartialUpdate(patch, table)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, username, set); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no user found: %s", username))
		}
		return nil, storeErr(err)
	}
	return s.Get(ctx, username)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound(fmt.Sprintf("no user found: %s", username))
		}
		return storeErr(err)
	}
	return nil
}
