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

// slotCapacity is the maximum number of appointments sharing one
// (doctor, date, time) slot.
const slotCapacity = 3

const (
	apptCacheTTL  = time.Minute
	apptKeyFormat = "appointment:%d"
	apptsListKey  = "appointments:all"
)

// BookingRequest is a candidate booking.
type BookingRequest struct {
	DoctorFirstName  string
	DoctorLastName   string
	PatientFirstName string
	PatientLastName  string
	Date             string
	Time             string
	Kind             string
}

// BookingService is the admission engine plus the appointment CRUD around it.
type BookingService interface {
	Book(ctx context.Context, req BookingRequest) (*model.Appointment, error)
	List(ctx context.Context) ([]model.Appointment, error)
	Get(ctx context.Context, id uint) (*model.Appointment, error)
	Reschedule(ctx context.Context, id uint, fields map[string]interface{}) (*model.Appointment, error)
	Cancel(ctx context.Context, id uint) error
}

type bookingService struct {
	appts repository.AppointmentRepository
	cache *cache.Client
}

// NewBookingService creates a new booking service.
func NewBookingService(appts repository.AppointmentRepository, cache *cache.Client) BookingService {
	return &bookingService{appts: appts, cache: cache}
}

func (s *bookingService) cacheKey(id uint) string {
	return fmt.Sprintf(apptKeyFormat, id)
}

// Book decides whether a candidate booking may be admitted and, if so,
// inserts it. Resolve, capacity check, duplicate check and insert all run in
// one transaction; the doctor row is locked FOR UPDATE up front so two
// concurrent admissions for the same doctor serialize and cannot both observe
// a free slot. Check order is capacity then duplicate; the first failing
// check's message is the one surfaced.
func (s *bookingService) Book(ctx context.Context, req BookingRequest) (*model.Appointment, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := normalizeTimeOfDay(req.Time)
	if err != nil {
		return nil, err
	}

	var appt *model.Appointment
	err = s.appts.WithTransaction(ctx, func(ctx context.Context, tx repository.AppointmentRepository) error {
		doctor, err := tx.FindDoctorByNameForUpdate(ctx, req.DoctorFirstName, req.DoctorLastName)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NotFound("no matching doctor")
			}
			return err
		}

		count, err := tx.CountBySlot(ctx, doctor.ID, date, timeOfDay)
		if err != nil {
			return err
		}
		if count >= slotCapacity {
			return errors.BadRequest("doctor fully booked for this slot")
		}

		existing, err := tx.ListByPatientAndDate(ctx, req.PatientFirstName, req.PatientLastName, date)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Time == timeOfDay {
				return errors.BadRequest("duplicate booking")
			}
		}

		appt = &model.Appointment{
			PatientFirstName: req.PatientFirstName,
			PatientLastName:  req.PatientLastName,
			DoctorID:         doctor.ID,
			Date:             date,
			Time:             timeOfDay,
			Kind:             req.Kind,
		}
		return tx.Create(ctx, appt)
	})
	if err != nil {
		return nil, storeErr(err)
	}
	_ = s.cache.Delete(ctx, apptsListKey)
	return appt, nil
}

// List returns all appointments, served from cache when warm.
func (s *bookingService) List(ctx context.Context) ([]model.Appointment, error) {
	if data, _ := s.cache.Get(ctx, apptsListKey); data != nil {
		var cached []model.Appointment
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	appts, err := s.appts.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	if payload, err := json.Marshal(appts); err == nil {
		_ = s.cache.Set(ctx, apptsListKey, payload, apptCacheTTL)
	}
	return appts, nil
}

func (s *bookingService) Get(ctx context.Context, id uint) (*model.Appointment, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Appointment
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no matching appointment: %d", id))
		}
		return nil, storeErr(err)
	}

	if payload, err := json.Marshal(appt); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, apptCacheTTL)
	}
	return appt, nil
}

// Reschedule applies a sparse patch to an appointment. Capacity and duplicate
// checks are NOT re-run when date or time change; admission rules gate
// creation only. Re-validating on reschedule is a possible future invariant,
// not current behavior.
func (s *bookingService) Reschedule(ctx context.Context, id uint, fields map[string]interface{}) (*model.Appointment, error) {
	if _, err := s.appts.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no matching appointment: %d", id))
		}
		return nil, storeErr(err)
	}

	patch := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		patch[k] = v
	}
	if raw, ok := patch["date"]; ok {
		str, _ := raw.(string)
		date, err := parseDate(str)
		if err != nil {
			return nil, err
		}
		patch["date"] = date
	}
	if raw, ok := patch["time"]; ok {
		str, _ := raw.(string)
		timeOfDay, err := normalizeTimeOfDay(str)
		if err != nil {
			return nil, err
		}
		patch["time"] = timeOfDay
	}

	set, err := repository.BuildPartialUpdate(patch, repository.AppointmentUpdateFields)
	if err != nil {
		return nil, err
	}
	if err := s.appts.UpdateFields(ctx, id, set); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(fmt.Sprintf("no matching appointment: %d", id))
		}
		return nil, storeErr(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id), apptsListKey)

	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return appt, nil
}

// Cancel hard-deletes an appointment. Deleting twice surfaces NotFound on the
// second call; there is no soft delete or audit trail.
func (s *bookingService) Cancel(ctx context.Context, id uint) error {
	if err := s.appts.Delete(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound(fmt.Sprintf("no matching appointment: %d", id))
		}
		return storeErr(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id), apptsListKey)
	return nil
}
