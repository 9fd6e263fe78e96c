package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type slotFixture struct {
	uc           SlotUsecase
	appointments *mockAppointmentRepo
	services     *mockServiceRepo
	dentists     *mockDentistRepo
	metrics      *metrics.Metrics
	dentistID    uuid.UUID
}

func newSlotFixture(t *testing.T, windows scheduling.WindowProvider) *slotFixture {
	t.Helper()
	db, _ := newMockDB(t)

	f := &slotFixture{
		appointments: new(mockAppointmentRepo),
		services:     new(mockServiceRepo),
		dentists:     new(mockDentistRepo),
		metrics:      metrics.NewMetrics(prometheus.NewRegistry(), "test"),
		dentistID:    uuid.New(),
	}
	f.uc = NewSlotUsecase(db, quietLogger(), fixedCalendar(), windows, f.appointments, f.services, f.dentists, f.metrics)
	f.dentists.On("FindActiveByUserID", mock.Anything, f.dentistID).Return(&entity.DentistProfile{UserID: f.dentistID}, nil)
	return f
}

func TestGenerateSlots_EmptyDay(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).Return([]entity.Appointment{}, nil)

	resp, err := f.uc.GenerateSlots(context.Background(), &dto.SlotQueryRequest{
		DentistID:       f.dentistID.String(),
		Date:            "2024-06-10",
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, 39, resp.Total)
	assert.Equal(t, "08:00", resp.Slots[0])
	assert.Equal(t, "17:30", resp.Slots[len(resp.Slots)-1])
	assert.Equal(t, "08:00", resp.WindowStart)
	assert.Equal(t, "18:00", resp.WindowEnd)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SlotPreviews.WithLabelValues("ok")))
}

func TestGenerateSlots_SkipsBookedIntervals(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).
		Return([]entity.Appointment{appointmentAt("10:30", 60), appointmentAt("09:00", 45)}, nil)

	resp, err := f.uc.GenerateSlots(context.Background(), &dto.SlotQueryRequest{
		DentistID:       f.dentistID.String(),
		Date:            "2024-06-10",
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	// 08:45-09:30 and 10:15-11:15 are blocked
	assert.Equal(t, 30, resp.Total)
	assert.Contains(t, resp.Slots, "08:30")
	assert.Contains(t, resp.Slots, "09:45")
	assert.Contains(t, resp.Slots, "11:30")
	assert.NotContains(t, resp.Slots, "08:45")
	assert.NotContains(t, resp.Slots, "09:30")
	assert.NotContains(t, resp.Slots, "10:15")
	assert.NotContains(t, resp.Slots, "11:15")
}

func TestGenerateSlots_DurationFromService(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	serviceID := uuid.New()
	f.services.On("FindByID", mock.Anything, serviceID).Return(&entity.Service{ID: serviceID, DurationMinutes: 600, IsActive: true}, nil)
	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).Return([]entity.Appointment{}, nil)

	resp, err := f.uc.GenerateSlots(context.Background(), &dto.SlotQueryRequest{
		DentistID: f.dentistID.String(),
		Date:      "2024-06-10",
		ServiceID: serviceID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, 600, resp.DurationMinutes)
	assert.Equal(t, []string{"08:00"}, resp.Slots)
}

func TestGenerateSlots_UnknownServiceOrDentist(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	serviceID := uuid.New()
	f.services.On("FindByID", mock.Anything, serviceID).Return(nil, nil)

	_, err := f.uc.GenerateSlots(context.Background(), &dto.SlotQueryRequest{
		DentistID: f.dentistID.String(),
		Date:      "2024-06-10",
		ServiceID: serviceID.String(),
	})
	_, ok := IsValidationError(err)
	assert.True(t, ok)
	f.appointments.AssertNotCalled(t, "FindActiveByDentistAndDate", mock.Anything, mock.Anything, mock.Anything)

	stranger := uuid.New()
	f.dentists.On("FindActiveByUserID", mock.Anything, stranger).Return(nil, nil)
	_, err = f.uc.GenerateSlots(context.Background(), &dto.SlotQueryRequest{
		DentistID:       stranger.String(),
		Date:            "2024-06-10",
		DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrDentistNotFound)
}

func TestAvailableStarts_StorageFailure(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).
		Return(nil, errors.New("too many connections"))

	_, _, err := f.uc.AvailableStarts(context.Background(), f.dentistID, time.Date(2024, 6, 10, 0, 0, 0, 0, clinicZone), 30)
	assert.True(t, IsStorageError(err))
}

func TestAvailableStarts_NonPositiveDuration(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))

	_, _, err := f.uc.AvailableStarts(context.Background(), f.dentistID, time.Date(2024, 6, 10, 0, 0, 0, 0, clinicZone), 0)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
}

func TestAvailableStarts_ClosedDayAndCustomHours(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, clinicZone)

	closed := newSlotFixture(t, stubWindows{err: scheduling.ErrClosed})
	closed.appointments.On("FindActiveByDentistAndDate", mock.Anything, closed.dentistID, mock.Anything).Return([]entity.Appointment{}, nil)
	slots, _, err := closed.uc.AvailableStarts(context.Background(), closed.dentistID, date, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)

	morning, err := scheduling.NewTimeWindow("09:00", "12:00", 30)
	require.NoError(t, err)
	short := newSlotFixture(t, stubWindows{window: morning})
	short.appointments.On("FindActiveByDentistAndDate", mock.Anything, short.dentistID, mock.Anything).Return([]entity.Appointment{}, nil)
	slots, window, err := short.uc.AvailableStarts(context.Background(), short.dentistID, date, 60)
	require.NoError(t, err)
	assert.Equal(t, morning, window)
	assert.Equal(t, []scheduling.Clock{
		scheduling.NewClock(9, 0),
		scheduling.NewClock(9, 30),
		scheduling.NewClock(10, 0),
		scheduling.NewClock(10, 30),
		scheduling.NewClock(11, 0),
	}, slots)
}

func TestAvailableStarts_ReadsFreshEveryCall(t *testing.T) {
	f := newSlotFixture(t, scheduling.FixedWindow(scheduling.DefaultWindow()))
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, clinicZone)

	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).Return([]entity.Appointment{}, nil).Once()
	f.appointments.On("FindActiveByDentistAndDate", mock.Anything, f.dentistID, mock.Anything).
		Return([]entity.Appointment{appointmentAt("08:00", 600)}, nil).Once()

	first, _, err := f.uc.AvailableStarts(context.Background(), f.dentistID, date, 30)
	require.NoError(t, err)
	second, _, err := f.uc.AvailableStarts(context.Background(), f.dentistID, date, 30)
	require.NoError(t, err)

	assert.Len(t, first, 39)
	assert.Empty(t, second)
	f.appointments.AssertNumberOfCalls(t, "FindActiveByDentistAndDate", 2)
}
