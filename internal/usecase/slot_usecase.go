package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/delivery/dto"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type SlotUsecase interface {
	// AvailableStarts lists the bookable start times for a dentist on date.
	AvailableStarts(ctx context.Context, dentistID uuid.UUID, date time.Time, durationMinutes int) ([]scheduling.Clock, scheduling.TimeWindow, error)
	GenerateSlots(ctx context.Context, req *dto.SlotQueryRequest) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	calendar        Calendar
	windows         scheduling.WindowProvider
	appointmentRepo repository.AppointmentRepository
	serviceRepo     repository.ServiceRepository
	dentistRepo     repository.DentistRepository
	metrics         *metrics.Metrics
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	calendar Calendar,
	windows scheduling.WindowProvider,
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	dentistRepo repository.DentistRepository,
	m *metrics.Metrics,
) SlotUsecase {
	return &slotUsecase{
		db:              db,
		log:             log,
		calendar:        calendar,
		windows:         windows,
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		dentistRepo:     dentistRepo,
		metrics:         m,
	}
}

// AvailableStarts reads the dentist's appointments fresh on every call; the
// result is never cached. A closed day yields an empty list.
func (u *slotUsecase) AvailableStarts(ctx context.Context, dentistID uuid.UUID, date time.Time, durationMinutes int) ([]scheduling.Clock, scheduling.TimeWindow, error) {
	if durationMinutes <= 0 {
		return nil, scheduling.TimeWindow{}, NewValidationError("duration", "duration must be a positive number of minutes")
	}

	var (
		window   scheduling.TimeWindow
		existing []scheduling.Interval
		closed   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := u.windows.WindowFor(gctx, dentistID, date)
		if errors.Is(err, scheduling.ErrClosed) {
			closed = true
			return nil
		}
		if err != nil {
			return &StorageError{Op: "load window", Err: err}
		}
		window = w
		return nil
	})
	g.Go(func() error {
		appointments, err := u.appointmentRepo.FindActiveByDentistAndDate(u.db.WithContext(gctx), dentistID, date)
		if err != nil {
			return &StorageError{Op: "load appointments", Err: err}
		}
		existing = entity.Intervals(appointments)
		return nil
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load slot inputs for dentist %s on %s: %+v", dentistID, date.Format(dateLayout), err)
		return nil, scheduling.TimeWindow{}, err
	}

	if closed {
		return []scheduling.Clock{}, window, nil
	}

	slots, err := scheduling.GenerateSlots(window, durationMinutes, existing)
	if err != nil {
		return nil, window, err
	}
	return slots, window, nil
}

func (u *slotUsecase) GenerateSlots(ctx context.Context, req *dto.SlotQueryRequest) (*dto.SlotListResponse, error) {
	status := "error"
	total := 0
	defer func() {
		if u.metrics != nil {
			u.metrics.ObservePreview(status, total)
		}
	}()

	dentistID, err := uuid.Parse(req.DentistID)
	if err != nil {
		return nil, NewValidationError("dentist_id", "dentist_id must be a valid UUID")
	}
	date, err := u.calendar.ParseDate(req.Date)
	if err != nil {
		return nil, NewValidationError("date", "date must be a date in YYYY-MM-DD format")
	}

	dentist, err := u.dentistRepo.FindActiveByUserID(u.db.WithContext(ctx), dentistID)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", dentistID, err)
		return nil, &StorageError{Op: "find dentist", Err: err}
	}
	if dentist == nil {
		return nil, ErrDentistNotFound
	}

	duration := req.DurationMinutes
	if req.ServiceID != "" {
		svc, err := u.resolveService(ctx, req.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = svc.DurationMinutes
	}

	slots, window, err := u.AvailableStarts(ctx, dentistID, date, duration)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.String()
	}

	status = "ok"
	total = len(slots)
	resp := &dto.SlotListResponse{
		DentistID:       dentistID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           labels,
		Total:           len(labels),
	}
	if window.Step > 0 {
		resp.WindowStart = window.Start.String()
		resp.WindowEnd = window.End.String()
	}
	return resp, nil
}

func (u *slotUsecase) resolveService(ctx context.Context, rawID string) (*entity.Service, error) {
	serviceID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, NewValidationError("service_id", "service_id must be a valid UUID")
	}
	return findBookableService(ctx, u.db, u.log, u.serviceRepo, serviceID)
}

// findBookableService resolves an active service with a positive duration.
// Anything else is reported against the service_id field.
func findBookableService(ctx context.Context, db *gorm.DB, log *logrus.Logger, repo repository.ServiceRepository, serviceID uuid.UUID) (*entity.Service, error) {
	svc, err := repo.FindByID(db.WithContext(ctx), serviceID)
	if err != nil {
		log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, &StorageError{Op: "find service", Err: err}
	}
	if svc == nil || !svc.IsActive {
		return nil, NewValidationError("service_id", "unknown service")
	}
	if svc.DurationMinutes <= 0 {
		return nil, NewValidationError("service_id", "service has no positive duration")
	}
	return svc, nil
}
