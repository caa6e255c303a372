package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateFields(ctx context.Context, username string, set *UpdateSet) error
	Delete(ctx context.Context, username string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFields applies a built partial update. Column names come from the
// compile-time translation tables; all values are bound parameters.
func (r *userRepository) UpdateFields(ctx context.Context, username string, set *UpdateSet) error {
	args := append(append([]interface{}{}, set.Values...), username)
	tx := r.db.WithContext(ctx).Exec(
		"UPDATE users SET "+strings.Join(set.Assignments, ", ")+" WHERE username = ?", args...)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	tx := r.db.WithContext(ctx).Where("username = ?", username).Delete(&model.User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
