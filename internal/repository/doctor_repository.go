package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"clinicbook/internal/model"
)

// DoctorRepository defines doctor persistence operations.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	FindByID(ctx context.Context, id uint) (*model.Doctor, error)
	FindByName(ctx context.Context, firstName, lastName string) (*model.Doctor, error)
	List(ctx context.Context) ([]model.Doctor, error)
	UpdateFields(ctx context.Context, id uint, set *UpdateSet) error
	Delete(ctx context.Context, id uint) error
}

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository builds a GORM-backed repository.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, id uint) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, id).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// FindByName resolves a doctor by exact first+last name match.
func (r *doctorRepository) FindByName(ctx context.Context, firstName, lastName string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) UpdateFields(ctx context.Context, id uint, set *UpdateSet) error {
	args := append(append([]interface{}{}, set.Values...), id)
	tx := r.db.WithContext(ctx).Exec(
		"UPDATE doctors SET "+strings.Join(set.Assignments, ", ")+" WHERE id = ?", args...)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&model.Doctor{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
