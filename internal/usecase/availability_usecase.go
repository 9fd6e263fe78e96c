package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/converter"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/http/middleware"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"
	repoimpl "github.com/LeeDev428/smile-republic-dcms-sub000/internal/repository"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditEntityAvailability = "dentist_availability"

// AvailabilityUsecase manages per-dentist working hours. It also serves as a
// scheduling.WindowProvider when dentist hours are enabled.
type AvailabilityUsecase interface {
	scheduling.WindowProvider
	CreateAvailability(ctx context.Context, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetAvailability(ctx context.Context, id int) (*dto.AvailabilityResponse, error)
	ListAvailabilities(ctx context.Context, req *dto.AvailabilityFilterRequest) (*dto.AvailabilityListResponse, error)
	DeleteAvailability(ctx context.Context, id int) error
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	calendar         Calendar
	clinicWindow     scheduling.TimeWindow
	availabilityRepo repository.DentistAvailabilityRepository
	dentistRepo      repository.DentistRepository
	auditService     service.AuditService
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	calendar Calendar,
	clinicWindow scheduling.TimeWindow,
	availabilityRepo repository.DentistAvailabilityRepository,
	dentistRepo repository.DentistRepository,
	auditService service.AuditService,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		calendar:         calendar,
		clinicWindow:     clinicWindow,
		availabilityRepo: availabilityRepo,
		dentistRepo:      dentistRepo,
		auditService:     auditService,
	}
}

// WindowFor returns the dentist's own hours for date, or the clinic window
// when none are recorded. A day off yields scheduling.ErrClosed.
func (u *availabilityUsecase) WindowFor(ctx context.Context, dentistID uuid.UUID, date time.Time) (scheduling.TimeWindow, error) {
	availability, err := u.availabilityRepo.FindByDentistAndDate(u.db.WithContext(ctx), dentistID, date)
	if err != nil {
		return scheduling.TimeWindow{}, err
	}
	if availability == nil {
		return u.clinicWindow, nil
	}
	if availability.IsDayOff {
		return scheduling.TimeWindow{}, scheduling.ErrClosed
	}

	window, err := scheduling.NewTimeWindow(availability.StartTime, availability.EndTime, u.clinicWindow.Step)
	if err != nil {
		return scheduling.TimeWindow{}, fmt.Errorf("availability %d: %w", availability.ID, err)
	}
	return window, nil
}

func (u *availabilityUsecase) CreateAvailability(ctx context.Context, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	dentist, err := u.dentistRepo.FindActiveByUserID(u.db.WithContext(ctx), req.DentistID)
	if err != nil {
		u.log.Warnf("Failed to find dentist: %+v", err)
		return nil, &StorageError{Op: "find dentist", Err: err}
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}

	date, err := u.calendar.ParseDate(req.AvailableDate)
	if err != nil {
		return nil, NewValidationError("available_date", "available_date must be a date in YYYY-MM-DD format")
	}

	availability := &entity.DentistAvailability{
		DentistID:     req.DentistID,
		AvailableDate: date,
		IsDayOff:      req.IsDayOff,
		Note:          req.Note,
	}
	if !req.IsDayOff {
		window, err := scheduling.NewTimeWindow(req.StartTime, req.EndTime, u.clinicWindow.Step)
		if err != nil {
			return nil, NewValidationError("end_time", "end_time must be after start_time")
		}
		availability.StartTime = window.Start.String()
		availability.EndTime = window.End.String()
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, &StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	if err := u.availabilityRepo.Create(tx, availability); err != nil {
		if repoimpl.IsDuplicateKeyError(err, "idx_availability_dentist_date") {
			return nil, ErrAvailabilityExists
		}
		u.log.Warnf("Failed to create availability: %+v", err)
		return nil, &StorageError{Op: "create availability", Err: err}
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionAvailabilityCreate, auditEntityAvailability, fmt.Sprint(availability.ID), availability); err != nil {
		return nil, &StorageError{Op: "write audit log", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit availability: %+v", err)
		return nil, &StorageError{Op: "commit availability", Err: err}
	}

	return converter.AvailabilityToResponse(availability), nil
}

func (u *availabilityUsecase) GetAvailability(ctx context.Context, id int) (*dto.AvailabilityResponse, error) {
	availability, err := u.availabilityRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, &StorageError{Op: "find availability", Err: err}
	}
	if availability == nil {
		return nil, ErrAvailabilityNotFound
	}
	return converter.AvailabilityToResponse(availability), nil
}

func (u *availabilityUsecase) ListAvailabilities(ctx context.Context, req *dto.AvailabilityFilterRequest) (*dto.AvailabilityListResponse, error) {
	filter := &entity.AvailabilityFilter{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	}
	if req.DentistID != "" {
		dentistID, err := uuid.Parse(req.DentistID)
		if err != nil {
			return nil, NewValidationError("dentist_id", "dentist_id must be a valid UUID")
		}
		filter.DentistID = dentistID
	}

	availabilities, err := u.availabilityRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list availabilities: %+v", err)
		return nil, &StorageError{Op: "list availabilities", Err: err}
	}

	return &dto.AvailabilityListResponse{
		Availabilities: converter.AvailabilitiesToResponses(availabilities),
		Total:          len(availabilities),
	}, nil
}

func (u *availabilityUsecase) DeleteAvailability(ctx context.Context, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return &StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	existing, err := u.availabilityRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return &StorageError{Op: "find availability", Err: err}
	}
	if existing == nil {
		return ErrAvailabilityNotFound
	}

	if _, err := u.availabilityRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete availability: %+v", err)
		return &StorageError{Op: "delete availability", Err: err}
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionAvailabilityDelete, auditEntityAvailability, fmt.Sprint(id), existing); err != nil {
		return &StorageError{Op: "write audit log", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		return &StorageError{Op: "commit delete", Err: err}
	}
	return nil
}
