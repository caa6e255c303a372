package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"clinicbook/internal/errors"
	"clinicbook/internal/model"
	"clinicbook/internal/repository"
)

// MockDoctorRepository is a mock implementation of DoctorRepository.
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) FindByID(ctx context.Context, id uint) (*model.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) FindByName(ctx context.Context, firstName, lastName string) (*model.Doctor, error) {
	args := m.Called(ctx, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) List(ctx context.Context) ([]model.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) UpdateFields(ctx context.Context, id uint, set *repository.UpdateSet) error {
	args := m.Called(ctx, id, set)
	return args.Error(0)
}

func (m *MockDoctorRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestDoctorService_Create(t *testing.T) {
	t.Run("new doctor", func(t *testing.T) {
		mockRepo := new(MockDoctorRepository)
		mockRepo.On("FindByName", mock.Anything, "Oliver", "Twist").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Doctor")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Doctor).ID = 2
			}).Return(nil)

		svc := NewDoctorService(mockRepo, nil, nil)
		doctor, err := svc.Create(context.Background(), &model.Doctor{FirstName: "Oliver", LastName: "Twist"})
		assert.NoError(t, err)
		assert.Equal(t, uint(2), doctor.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockRepo := new(MockDoctorRepository)
		mockRepo.On("FindByName", mock.Anything, "Oliver", "Twist").
			Return(&model.Doctor{ID: 2, FirstName: "Oliver", LastName: "Twist"}, nil)

		svc := NewDoctorService(mockRepo, nil, nil)
		doctor, err := svc.Create(context.Background(), &model.Doctor{FirstName: "Oliver", LastName: "Twist"})
		assert.Nil(t, doctor)
		assert.Equal(t, errors.KindBadRequest, errors.KindOf(err))
		assert.EqualError(t, err, "duplicate doctor: Oliver Twist")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDoctorService_Appointments(t *testing.T) {
	doctor := &model.Doctor{ID: 2, FirstName: "Oliver", LastName: "Twist"}
	date, _ := time.Parse("2006-01-02", "2022-01-01")
	appts := []model.Appointment{{ID: 1, DoctorID: 2, Date: date, Time: "09:00:00"}}

	t.Run("by id without a date filter", func(t *testing.T) {
		doctors := new(MockDoctorRepository)
		doctors.On("FindByID", mock.Anything, uint(2)).Return(doctor, nil)
		apptRepo := new(MockAppointmentRepository)
		apptRepo.On("ListByDoctor", mock.Anything, uint(2)).Return(appts, nil)

		svc := NewDoctorService(doctors, apptRepo, nil)
		got, err := svc.Appointments(context.Background(), 2, nil)
		assert.NoError(t, err)
		assert.Equal(t, appts, got)
		apptRepo.AssertNotCalled(t, "ListByDoctorAndDate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("by id with a date filter", func(t *testing.T) {
		doctors := new(MockDoctorRepository)
		doctors.On("FindByID", mock.Anything, uint(2)).Return(doctor, nil)
		apptRepo := new(MockAppointmentRepository)
		apptRepo.On("ListByDoctorAndDate", mock.Anything, uint(2), date).Return(appts, nil)

		svc := NewDoctorService(doctors, apptRepo, nil)
		got, err := svc.Appointments(context.Background(), 2, &date)
		assert.NoError(t, err)
		assert.Equal(t, appts, got)
	})

	t.Run("by name resolves to the same record", func(t *testing.T) {
		doctors := new(MockDoctorRepository)
		doctors.On("FindByName", mock.Anything, "Oliver", "Twist").Return(doctor, nil)
		apptRepo := new(MockAppointmentRepository)
		apptRepo.On("ListByDoctor", mock.Anything, uint(2)).Return(appts, nil)

		svc := NewDoctorService(doctors, apptRepo, nil)
		got, err := svc.AppointmentsByName(context.Background(), "Oliver", "Twist", nil)
		assert.NoError(t, err)
		assert.Equal(t, appts, got)
	})

	t.Run("unknown doctor id", func(t *testing.T) {
		doctors := new(MockDoctorRepository)
		doctors.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		apptRepo := new(MockAppointmentRepository)

		svc := NewDoctorService(doctors, apptRepo, nil)
		got, err := svc.Appointments(context.Background(), 99, nil)
		assert.Nil(t, got)
		assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
		apptRepo.AssertNotCalled(t, "ListByDoctor", mock.Anything, mock.Anything)
	})

	t.Run("unknown doctor name", func(t *testing.T) {
		doctors := new(MockDoctorRepository)
		doctors.On("FindByName", mock.Anything, "No", "Body").Return(nil, gorm.ErrRecordNotFound)

		svc := NewDoctorService(doctors, new(MockAppointmentRepository), nil)
		_, err := svc.AppointmentsByName(context.Background(), "No", "Body", nil)
		assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
		assert.EqualError(t, err, "no doctor found: No Body")
	})
}

func TestDoctorService_Update(t *testing.T) {
	t.Run("unknown field only", func(t *testing.T) {
		mockRepo := new(MockDoctorRepository)

		svc := NewDoctorService(mockRepo, nil, nil)
		doctor, err := svc.Update(context.Background(), 2, map[string]interface{}{"specialty": "ENT"})
		assert.Nil(t, doctor)
		assert.Equal(t, errors.KindBadRequest, errors.KindOf(err))
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("email change", func(t *testing.T) {
		mockRepo := new(MockDoctorRepository)
		mockRepo.On("UpdateFields", mock.Anything, uint(2), mock.MatchedBy(func(set *repository.UpdateSet) bool {
			return len(set.Assignments) == 1 && set.Assignments[0] == "email = ?"
		})).Return(nil)
		mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.Doctor{ID: 2, Email: "new@example.com"}, nil)

		svc := NewDoctorService(mockRepo, nil, nil)
		doctor, err := svc.Update(context.Background(), 2, map[string]interface{}{"email": "new@example.com"})
		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", doctor.Email)
		mockRepo.AssertExpectations(t)
	})
}
