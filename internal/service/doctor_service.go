package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clinicbook/internal/cache"
	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

const (
	doctorCacheTTL  = 5 * time.Minute
	doctorsListKey  = "doctors:all"
	doctorKeyFormat = "doctor:%d"
)

// DoctorService handles doctor administration and doctor-scoped appointment
// views.
type DoctorService interface {
	List(ctx context.Context) ([]model.Doctor, error)
	Get(ctx context.Context, id uint) (*model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Doctor, error)
	Delete(ctx context.Context, id uint) error
	Appointments(ctx context.Context, id uint, date *time.Time) ([]model.Appointment, error)
	AppointmentsByName(ctx context.Context, firstName, lastName string, date *time.Time) ([]model.Appointment, error)
}

type doctorService struct {
	doctors repository.DoctorRepository
	appts   repository.AppointmentRepository
	cache   *cache.Client
}

// NewDoctorService creates a new doctor service.
func NewDoctorService(doctors repository.DoctorRepository, appts repository.AppointmentRepository, cache *cache.Client) DoctorService {
	return &doctorService{doctors: doctors, appts: appts, cache: cache}
}

func (s *doctorService) cacheKey(id uint) string {
	return fmt.Sprintf(doctorKeyFormat, id)
}

// List returns all doctors, served from cache when warm.
func (s *doctorService) List(ctx context.Context) ([]model.Doctor, error) {
	if data, _ := s.cache.Get(ctx, doctorsListKey); data != nil {
		var cached []model.Doctor
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	if payload, err := json.Marshal(doctors); err == nil {
		_ = s.cache.Set(ctx, doctorsListKey, payload, doctorCacheTTL)
	}
	return doctors, nil
}

func (s *doctorService) Get(ctx context.Context, id uint) (*model.Doctor, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Doctor
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	doctor, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no doctor found: %d", id))
		}
		return nil, storeErr(err)
	}

	if payload, err := json.Marshal(doctor); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, doctorCacheTTL)
	}
	return doctor, nil
}

func (s *doctorService) Create(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error) {
	existing, err := s.doctors.FindByName(ctx, doctor.FirstName, doctor.LastName)
	if err == nil && existing != nil {
		return nil, errors.BadRequest(fmt.Sprintf("duplicate doctor: %s %s", doctor.FirstName, doctor.LastName))
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, storeErr(err)
	}
	_ = s.cache.Delete(ctx, doctorsListKey)
	return doctor, nil
}

func (s *doctorService) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Doctor, error) {
	set, err := repository.BuildPartialUpdate(fields, repository.DoctorUpdateFields)
	if err != nil {
		return nil, err
	}
	if err := s.doctors.UpdateFields(ctx, id, set); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no doctor found: %d", id))
		}
		return nil, storeErr(err)
	}
	_ = s.cache.Delete(ctx, doctorsListKey, s.cacheKey(id))

	doctor, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return doctor, nil
}

func (s *doctorService) Delete(ctx context.Context, id uint) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound(fmt.Sprintf("no doctor found: %d", id))
		}
		return storeErr(err)
	}
	_ = s.cache.Delete(ctx, doctorsListKey, s.cacheKey(id))
	return nil
}

// Appointments lists a doctor's appointments, optionally for one date.
func (s *doctorService) Appointments(ctx context.Context, id uint, date *time.Time) ([]model.Appointment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.listAppointments(ctx, id, date)
}

// AppointmentsByName resolves the doctor by exact first+last name first; both
// name and id lookups resolve to the same record.
func (s *doctorService) AppointmentsByName(ctx context.Context, firstName, lastName string, date *time.Time) ([]model.Appointment, error) {
	doctor, err := s.doctors.FindByName(ctx, firstName, lastName)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no doctor found: %s %s", firstName, lastName))
		}
		return nil, storeErr(err)
	}
	return s.listAppointments(ctx, doctor.ID, date)
}

func (s *doctorService) listAppointments(ctx context.Context, doctorID uint, date *time.Time) ([]model.Appointment, error) {
	var (
		appts []model.Appointment
		err   error
	)
	if date != nil {
		appts, err = s.appts.ListByDoctorAndDate(ctx, doctorID, *date)
	} else {
		appts, err = s.appts.ListByDoctor(ctx, doctorID)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return appts, nil
}
