package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, sqlMock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var clinicZone = time.FixedZone("PHT", 8*60*60)

// fixedCalendar pins "now" to 2024-06-03 08:00 clinic time.
func fixedCalendar() Calendar {
	return Calendar{
		Location: clinicZone,
		Now: func() time.Time {
			return time.Date(2024, 6, 3, 8, 0, 0, 0, clinicZone)
		},
	}
}

func appointmentAt(start string, duration int) entity.Appointment {
	c, err := scheduling.ParseClock(start)
	if err != nil {
		panic(err)
	}
	return entity.Appointment{
		ID:              uuid.New(),
		StartMinute:     int(c),
		DurationMinutes: duration,
		Status:          entity.AppointmentStatusScheduled,
	}
}

type mockAppointmentRepo struct{ mock.Mock }

func (m *mockAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return m.Called(db, appointment).Error(0)
}

func (m *mockAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) FindActiveByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	args := m.Called(db, dentistID, date)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	args := m.Called(db, dentistID, date)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) LockDentistDay(db *gorm.DB, dentistID uuid.UUID, date time.Time) error {
	return m.Called(db, dentistID, date).Error(0)
}

func (m *mockAppointmentRepo) CancelAppointment(db *gorm.DB, id uuid.UUID, reason string) (int64, error) {
	args := m.Called(db, id, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(db, id)
	s, _ := args.Get(0).(*entity.Service)
	return s, args.Error(1)
}

type mockDentistRepo struct{ mock.Mock }

func (m *mockDentistRepo) FindActiveByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DentistProfile, error) {
	args := m.Called(db, userID)
	d, _ := args.Get(0).(*entity.DentistProfile)
	return d, args.Error(1)
}

type mockPatientRepo struct{ mock.Mock }

func (m *mockPatientRepo) Exists(db *gorm.DB, id uuid.UUID) (bool, error) {
	args := m.Called(db, id)
	return args.Bool(0), args.Error(1)
}

type mockAvailabilityRepo struct{ mock.Mock }

func (m *mockAvailabilityRepo) Create(db *gorm.DB, availability *entity.DentistAvailability) error {
	return m.Called(db, availability).Error(0)
}

func (m *mockAvailabilityRepo) FindByID(db *gorm.DB, id int) (*entity.DentistAvailability, error) {
	args := m.Called(db, id)
	a, _ := args.Get(0).(*entity.DentistAvailability)
	return a, args.Error(1)
}

func (m *mockAvailabilityRepo) FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) (*entity.DentistAvailability, error) {
	args := m.Called(db, dentistID, date)
	a, _ := args.Get(0).(*entity.DentistAvailability)
	return a, args.Error(1)
}

func (m *mockAvailabilityRepo) FindAll(db *gorm.DB, filter *entity.AvailabilityFilter) ([]entity.DentistAvailability, error) {
	args := m.Called(db, filter)
	a, _ := args.Get(0).([]entity.DentistAvailability)
	return a, args.Error(1)
}

func (m *mockAvailabilityRepo) Delete(db *gorm.DB, id int) (int64, error) {
	args := m.Called(db, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditService struct{ mock.Mock }

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return m.Called(action, entityName, entityID).Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return m.Called(action, entityName, entityID).Error(0)
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return m.Called(action, entityName, entityID).Error(0)
}

func (m *mockAuditService) History(ctx context.Context, entityName string, entityID string) ([]entity.AuditLog, error) {
	args := m.Called(entityName, entityID)
	l, _ := args.Get(0).([]entity.AuditLog)
	return l, args.Error(1)
}

type mockIdempotencyStore struct{ mock.Mock }

func (m *mockIdempotencyStore) Lookup(ctx context.Context, key string) (uuid.UUID, bool, error) {
	args := m.Called(key)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockIdempotencyStore) Remember(ctx context.Context, key string, appointmentID uuid.UUID) error {
	return m.Called(key, appointmentID).Error(0)
}

type stubWindows struct {
	window scheduling.TimeWindow
	err    error
}

func (s stubWindows) WindowFor(context.Context, uuid.UUID, time.Time) (scheduling.TimeWindow, error) {
	return s.window, s.err
}
