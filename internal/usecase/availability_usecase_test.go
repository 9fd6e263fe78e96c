package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAvailabilityFixture(t *testing.T) (AvailabilityUsecase, sqlmock.Sqlmock, *mockAvailabilityRepo, *mockDentistRepo, *mockAuditService) {
	t.Helper()
	db, sqlMock := newMockDB(t)
	repo := new(mockAvailabilityRepo)
	dentists := new(mockDentistRepo)
	audit := new(mockAuditService)
	uc := NewAvailabilityUsecase(db, quietLogger(), fixedCalendar(), scheduling.DefaultWindow(), repo, dentists, audit)
	return uc, sqlMock, repo, dentists, audit
}

func TestWindowFor(t *testing.T) {
	uc, _, repo, _, _ := newAvailabilityFixture(t)
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, clinicZone)

	noRow := uuid.New()
	repo.On("FindByDentistAndDate", mock.Anything, noRow, date).Return(nil, nil)
	window, err := uc.WindowFor(context.Background(), noRow, date)
	require.NoError(t, err)
	assert.Equal(t, scheduling.DefaultWindow(), window)

	dayOff := uuid.New()
	repo.On("FindByDentistAndDate", mock.Anything, dayOff, date).Return(&entity.DentistAvailability{IsDayOff: true}, nil)
	_, err = uc.WindowFor(context.Background(), dayOff, date)
	assert.ErrorIs(t, err, scheduling.ErrClosed)

	halfDay := uuid.New()
	repo.On("FindByDentistAndDate", mock.Anything, halfDay, date).
		Return(&entity.DentistAvailability{StartTime: "13:00", EndTime: "17:00"}, nil)
	window, err = uc.WindowFor(context.Background(), halfDay, date)
	require.NoError(t, err)
	assert.Equal(t, scheduling.NewClock(13, 0), window.Start)
	assert.Equal(t, scheduling.NewClock(17, 0), window.End)
	assert.Equal(t, scheduling.DefaultStepMinutes, window.Step)

	broken := uuid.New()
	repo.On("FindByDentistAndDate", mock.Anything, broken, date).
		Return(&entity.DentistAvailability{ID: 7, StartTime: "17:00", EndTime: "13:00"}, nil)
	_, err = uc.WindowFor(context.Background(), broken, date)
	assert.ErrorIs(t, err, scheduling.ErrInvalidArgument)
}

func TestCreateAvailability(t *testing.T) {
	uc, sqlMock, repo, dentists, audit := newAvailabilityFixture(t)
	dentistID := uuid.New()

	dentists.On("FindActiveByUserID", mock.Anything, dentistID).Return(&entity.DentistProfile{UserID: dentistID}, nil)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.DentistAvailability) bool {
		return a.DentistID == dentistID && a.StartTime == "09:00" && a.EndTime == "15:30"
	})).Return(nil)
	audit.On("LogCreate", entity.AuditActionAvailabilityCreate, "dentist_availability", mock.Anything).Return(nil)

	resp, err := uc.CreateAvailability(context.Background(), &dto.CreateAvailabilityRequest{
		DentistID:     dentistID,
		AvailableDate: "2024-06-10",
		StartTime:     "09:00",
		EndTime:       "15:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", resp.AvailableDate)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateAvailability_Duplicate(t *testing.T) {
	uc, sqlMock, repo, dentists, _ := newAvailabilityFixture(t)
	dentistID := uuid.New()

	dentists.On("FindActiveByUserID", mock.Anything, dentistID).Return(&entity.DentistProfile{UserID: dentistID}, nil)
	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	repo.On("Create", mock.Anything, mock.Anything).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "idx_availability_dentist_date"})

	_, err := uc.CreateAvailability(context.Background(), &dto.CreateAvailabilityRequest{
		DentistID:     dentistID,
		AvailableDate: "2024-06-10",
		IsDayOff:      true,
	})

	assert.ErrorIs(t, err, ErrAvailabilityExists)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateAvailability_InvertedHours(t *testing.T) {
	uc, _, _, dentists, _ := newAvailabilityFixture(t)
	dentistID := uuid.New()
	dentists.On("FindActiveByUserID", mock.Anything, dentistID).Return(&entity.DentistProfile{UserID: dentistID}, nil)

	_, err := uc.CreateAvailability(context.Background(), &dto.CreateAvailabilityRequest{
		DentistID:     dentistID,
		AvailableDate: "2024-06-10",
		StartTime:     "15:00",
		EndTime:       "09:00",
	})

	ve, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "end_time")
}

func TestDeleteAvailability(t *testing.T) {
	uc, sqlMock, repo, _, audit := newAvailabilityFixture(t)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	repo.On("FindByID", mock.Anything, 3).Return(&entity.DentistAvailability{ID: 3}, nil)
	repo.On("Delete", mock.Anything, 3).Return(int64(1), nil)
	audit.On("LogDelete", entity.AuditActionAvailabilityDelete, "dentist_availability", "3").Return(nil)

	require.NoError(t, uc.DeleteAvailability(context.Background(), 3))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestDeleteAvailability_NotFound(t *testing.T) {
	uc, sqlMock, repo, _, _ := newAvailabilityFixture(t)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()
	repo.On("FindByID", mock.Anything, 9).Return(nil, nil)

	assert.ErrorIs(t, uc.DeleteAvailability(context.Background(), 9), ErrAvailabilityNotFound)
}
