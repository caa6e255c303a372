package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinicbook/internal/model"
)

// AppointmentRepository defines appointment persistence operations. Booking
// runs inside WithTransaction; the doctor-row lock serializes concurrent
// admissions for the same doctor across service instances.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	FindByID(ctx context.Context, id uint) (*model.Appointment, error)
	List(ctx context.Context) ([]model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]model.Appointment, error)
	ListByDoctorAndDate(ctx context.Context, doctorID uint, date time.Time) ([]model.Appointment, error)
	CountBySlot(ctx context.Context, doctorID uint, date time.Time, timeOfDay string) (int64, error)
	ListByPatientAndDate(ctx context.Context, firstName, lastName string, date time.Time) ([]model.Appointment, error)
	FindDoctorByNameForUpdate(ctx context.Context, firstName, lastName string) (*model.Doctor, error)
	UpdateFields(ctx context.Context, id uint, set *UpdateSet) error
	Delete(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AppointmentRepository) error) error
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository builds a GORM-backed repository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uint) (*model.Appointment, error) {
	var appt model.Appointment
	if err := r.db.WithContext(ctx).First(&appt, id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	var appts []model.Appointment
	if err := r.db.WithContext(ctx).Order("appt_date, appt_time").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]model.Appointment, error) {
	var appts []model.Appointment
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("appt_date, appt_time").
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID uint, date time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appt_date = ?", doctorID, date).
		Order("appt_time").
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *appointmentRepository) CountBySlot(ctx context.Context, doctorID uint, date time.Time, timeOfDay string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("doctor_id = ? AND appt_date = ? AND appt_time = ?", doctorID, date, timeOfDay).
		Count(&count).Error
	return count, err
}

// ListByPatientAndDate matches on patient name; patients carry no stable
// identity in this model.
func (r *appointmentRepository) ListByPatientAndDate(ctx context.Context, firstName, lastName string, date time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	if err := r.db.WithContext(ctx).
		Where("patient_first_name = ? AND patient_last_name = ? AND appt_date = ?", firstName, lastName, date).
		Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// FindDoctorByNameForUpdate resolves a doctor with a FOR UPDATE row lock.
// Locking the always-present parent row closes the check-then-insert race
// without relying on locks over a possibly empty slot row-set.
func (r *appointmentRepository) FindDoctorByNameForUpdate(ctx context.Context, firstName, lastName string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("first_name = ? AND last_name = ?", firstName, lastName).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *appointmentRepository) UpdateFields(ctx context.Context, id uint, set *UpdateSet) error {
	args := append(append([]interface{}{}, set.Values...), id)
	tx := r.db.WithContext(ctx).Exec(
		"UPDATE appointments SET "+strings.Join(set.Assignments, ", ")+" WHERE id = ?", args...)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an appointment permanently. A second delete of the same id
// reports gorm.ErrRecordNotFound; deletion is not idempotent.
func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Delete(&model.Appointment{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WithTransaction executes a function within a database transaction.
func (r *appointmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AppointmentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &appointmentRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
