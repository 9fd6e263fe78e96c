package usecase

import (
	"context"
	"crypto/rand"
	"errors"
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
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/metrics"
	"github.com/LeeDev428/smile-republic-dcms-sub000/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditEntityAppointment = "appointment"

type AppointmentUsecase interface {
	SubmitBooking(ctx context.Context, req *dto.SubmitBookingRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListDentistDay(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]dto.AuditEntryResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	calendar        Calendar
	windows         scheduling.WindowProvider
	submitTimeout   time.Duration
	appointmentRepo repository.AppointmentRepository
	serviceRepo     repository.ServiceRepository
	dentistRepo     repository.DentistRepository
	patientRepo     repository.PatientRepository
	auditService    service.AuditService
	locker          *service.DayLocker
	idempotency     service.IdempotencyStore
	metrics         *metrics.Metrics
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	calendar Calendar,
	windows scheduling.WindowProvider,
	submitTimeout time.Duration,
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	dentistRepo repository.DentistRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	locker *service.DayLocker,
	idempotency service.IdempotencyStore,
	m *metrics.Metrics,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		calendar:        calendar,
		windows:         windows,
		submitTimeout:   submitTimeout,
		appointmentRepo: appointmentRepo,
		serviceRepo:     serviceRepo,
		dentistRepo:     dentistRepo,
		patientRepo:     patientRepo,
		auditService:    auditService,
		locker:          locker,
		idempotency:     idempotency,
		metrics:         m,
	}
}

// SubmitBooking validates and persists a new appointment.
//
// Flow:
// 1. Validate fields, date not in the past, booking inside the dentist's window
// 2. Resolve the service (duration and price) before touching any appointment
// 3. Replay a previous result for a known Idempotency-Key
// 4. Serialize writers for (dentist, date): in-process lock, then advisory lock in the tx
// 5. Load active appointments and reject overlaps with ErrSlotConflict
// 6. Insert appointment and audit row, commit
func (u *appointmentUsecase) SubmitBooking(ctx context.Context, req *dto.SubmitBookingRequest) (*dto.AppointmentResponse, error) {
	started := time.Now()
	outcome := metrics.OutcomeError
	defer func() {
		if u.metrics != nil {
			u.metrics.ObserveSubmission(outcome, time.Since(started))
		}
	}()

	if u.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.submitTimeout)
		defer cancel()
	}

	// Step 1: Field validation
	if err := u.validator.Validate(req); err != nil {
		outcome = metrics.OutcomeValidation
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	dentistID := uuid.MustParse(req.DentistID)
	patientID := uuid.MustParse(req.PatientID)
	serviceID := uuid.MustParse(req.ServiceID)

	date, err := u.calendar.ParseDate(req.Date)
	if err != nil {
		outcome = metrics.OutcomeValidation
		return nil, NewValidationError("date", "date must be a date in YYYY-MM-DD format")
	}
	start, err := scheduling.ParseClock(req.StartTime)
	if err != nil {
		outcome = metrics.OutcomeValidation
		return nil, NewValidationError("start_time", "start_time must be a time in HH:MM format")
	}

	today := u.calendar.Today()
	if date.Before(today) {
		outcome = metrics.OutcomeValidation
		return nil, NewValidationError("date", "date must not be in the past")
	}
	if date.Equal(today) && start < u.calendar.NowClock() {
		outcome = metrics.OutcomeValidation
		return nil, NewValidationError("start_time", "start_time has already passed")
	}

	// Step 2: Resolve service
	svc, err := findBookableService(ctx, u.db, u.log, u.serviceRepo, serviceID)
	if err != nil {
		if _, ok := IsValidationError(err); ok {
			outcome = metrics.OutcomeValidation
		}
		return nil, err
	}
	candidate := scheduling.Interval{Start: start, Duration: svc.DurationMinutes}

	if err := u.checkParticipants(ctx, dentistID, patientID); err != nil {
		if _, ok := IsValidationError(err); ok {
			outcome = metrics.OutcomeValidation
		}
		return nil, err
	}

	window, err := u.windows.WindowFor(ctx, dentistID, date)
	if err != nil {
		if errors.Is(err, scheduling.ErrClosed) {
			outcome = metrics.OutcomeValidation
			return nil, NewValidationError("date", "dentist is not available on this date")
		}
		u.log.Warnf("Failed to resolve window for dentist %s: %+v", dentistID, err)
		return nil, &StorageError{Op: "load window", Err: err}
	}
	if !window.Contains(candidate) {
		outcome = metrics.OutcomeValidation
		return nil, NewValidationError("start_time", fmt.Sprintf(
			"appointment must start at or after %s and finish by %s", window.Start, window.End))
	}

	// Step 3: Idempotent replay
	if req.IdempotencyKey != "" && u.idempotency != nil {
		if replay := u.replay(ctx, req.IdempotencyKey, dentistID, patientID, date, candidate.Start); replay != nil {
			outcome = metrics.OutcomeReplayed
			return converter.AppointmentToResponse(replay), nil
		}
	}

	// Step 4: Serialize writers for this dentist and date
	unlock := u.locker.Lock(dentistID, date)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin booking transaction: %+v", tx.Error)
		return nil, &StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	if err := u.appointmentRepo.LockDentistDay(tx, dentistID, date); err != nil {
		u.log.Warnf("Failed to lock calendar of dentist %s: %+v", dentistID, err)
		return nil, &StorageError{Op: "lock dentist day", Err: err}
	}

	// Step 5: Conflict check against a fresh read
	existing, err := u.appointmentRepo.FindActiveByDentistAndDate(tx, dentistID, date)
	if err != nil {
		u.log.Warnf("Failed to load appointments of dentist %s: %+v", dentistID, err)
		return nil, &StorageError{Op: "load appointments", Err: err}
	}

	conflict, err := scheduling.ExistsConflict(candidate.Start, candidate.Duration, entity.Intervals(existing))
	if err != nil {
		u.log.Warnf("Stored appointments of dentist %s are malformed: %+v", dentistID, err)
		return nil, &StorageError{Op: "check conflict", Err: err}
	}
	if conflict {
		outcome = metrics.OutcomeConflict
		return nil, ErrSlotConflict
	}

	// Step 6: Persist
	bookingCode, err := generateBookingCode(date)
	if err != nil {
		u.log.Warnf("Failed to generate booking code: %+v", err)
		return nil, &StorageError{Op: "generate booking code", Err: err}
	}

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		DentistID:       dentistID,
		PatientID:       patientID,
		ServiceID:       serviceID,
		AppointmentDate: date,
		StartMinute:     int(candidate.Start),
		DurationMinutes: candidate.Duration,
		TotalCost:       svc.Price,
		BookingCode:     bookingCode,
		Status:          entity.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if repoimpl.IsOverlapViolation(err) {
			outcome = metrics.OutcomeConflict
			return nil, ErrSlotConflict
		}
		if repoimpl.IsForeignKeyError(err, "") {
			// Dentist, patient or service removed since it was resolved
			outcome = metrics.OutcomeValidation
			return nil, NewValidationError("service_id", "referenced record no longer exists")
		}
		u.log.Warnf("Failed to insert appointment: %+v", err)
		return nil, &StorageError{Op: "insert appointment", Err: err}
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionAppointmentCreate, auditEntityAppointment, appointment.ID.String(), appointment); err != nil {
		return nil, &StorageError{Op: "write audit log", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		if repoimpl.IsOverlapViolation(err) {
			outcome = metrics.OutcomeConflict
			return nil, ErrSlotConflict
		}
		u.log.Warnf("Failed to commit appointment: %+v", err)
		return nil, &StorageError{Op: "commit appointment", Err: err}
	}

	if req.IdempotencyKey != "" && u.idempotency != nil {
		if err := u.idempotency.Remember(ctx, req.IdempotencyKey, appointment.ID); err != nil {
			u.log.Warnf("Failed to remember idempotency key for appointment %s (non-fatal): %+v", appointment.ID, err)
		}
	}

	outcome = metrics.OutcomeCreated
	appointment.Service = *svc
	u.log.Infof("Appointment created: id=%s, dentist=%s, date=%s, start=%s, code=%s",
		appointment.ID, dentistID, req.Date, candidate.Start, appointment.BookingCode)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) checkParticipants(ctx context.Context, dentistID, patientID uuid.UUID) error {
	dentist, err := u.dentistRepo.FindActiveByUserID(u.db.WithContext(ctx), dentistID)
	if err != nil {
		u.log.Warnf("Failed to find dentist %s: %+v", dentistID, err)
		return &StorageError{Op: "find dentist", Err: err}
	}

	exists, err := u.patientRepo.Exists(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return &StorageError{Op: "find patient", Err: err}
	}

	fields := map[string]string{}
	if dentist == nil {
		fields["dentist_id"] = "unknown dentist"
	}
	if !exists {
		fields["patient_id"] = "unknown patient"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// replay returns the appointment previously committed under key, if any.
// A store outage is logged and treated as a miss; the conflict check still
// guards against double booking. A stored appointment for a different dentist,
// patient, date or start is not a replay and is ignored.
func (u *appointmentUsecase) replay(ctx context.Context, key string, dentistID, patientID uuid.UUID, date time.Time, start scheduling.Clock) *entity.Appointment {
	id, found, err := u.idempotency.Lookup(ctx, key)
	if err != nil {
		u.log.Warnf("Idempotency lookup failed (non-fatal): %+v", err)
		return nil
	}
	if !found {
		return nil
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to load replayed appointment %s: %+v", id, err)
		return nil
	}
	if appointment == nil {
		return nil
	}

	if appointment.DentistID != dentistID ||
		appointment.PatientID != patientID ||
		appointment.AppointmentDate.Format(dateLayout) != date.Format(dateLayout) ||
		appointment.StartMinute != int(start) {
		u.log.Warnf("Idempotency key %q maps to appointment %s with different details, ignoring", key, id)
		return nil
	}
	return appointment
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, &StorageError{Op: "find appointment", Err: err}
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListDentistDay(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AppointmentListResponse, error) {
	day, err := u.calendar.ParseDate(date)
	if err != nil {
		return nil, NewValidationError("date", "date must be a date in YYYY-MM-DD format")
	}

	appointments, err := u.appointmentRepo.FindByDentistAndDate(u.db.WithContext(ctx), dentistID, day)
	if err != nil {
		u.log.Warnf("Failed to list appointments of dentist %s: %+v", dentistID, err)
		return nil, &StorageError{Op: "list appointments", Err: err}
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CancelAppointment flips an active appointment to cancelled. The freed
// interval is offered again by the next slot preview.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID, req *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, &StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, &StorageError{Op: "find appointment", Err: err}
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.IsActive() || !appointment.CanTransitionTo(entity.AppointmentStatusCancelled) {
		return nil, ErrAppointmentNotActive
	}

	affected, err := u.appointmentRepo.CancelAppointment(tx, id, req.Reason)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, &StorageError{Op: "cancel appointment", Err: err}
	}
	if affected == 0 {
		return nil, ErrAppointmentNotActive
	}

	before := appointment.Status
	appointment.Status = entity.AppointmentStatusCancelled
	appointment.CancelReason = req.Reason

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionAppointmentCancel, auditEntityAppointment, id.String(),
		map[string]interface{}{"status": before},
		map[string]interface{}{"status": appointment.Status, "cancel_reason": req.Reason},
	); err != nil {
		return nil, &StorageError{Op: "write audit log", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancellation of %s: %+v", id, err)
		return nil, &StorageError{Op: "commit cancellation", Err: err}
	}

	if u.metrics != nil {
		u.metrics.AppointmentCancel.Inc()
	}
	u.log.Infof("Appointment cancelled: id=%s, dentist=%s", id, appointment.DentistID)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, &ValidationError{Fields: u.validator.FormatValidationErrors(err)}
	}
	next := entity.AppointmentStatus(req.Status)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, &StorageError{Op: "begin transaction", Err: tx.Error}
	}
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, &StorageError{Op: "find appointment", Err: err}
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	before := appointment.Status
	affected, err := u.appointmentRepo.UpdateStatus(tx, id, before, next)
	if err != nil {
		u.log.Warnf("Failed to update status of appointment %s: %+v", id, err)
		return nil, &StorageError{Op: "update status", Err: err}
	}
	if affected == 0 {
		// Changed by someone else since the read
		return nil, ErrInvalidStatusTransition
	}
	appointment.Status = next

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionAppointmentStatus, auditEntityAppointment, id.String(),
		map[string]interface{}{"status": before},
		map[string]interface{}{"status": next},
	); err != nil {
		return nil, &StorageError{Op: "write audit log", Err: err}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit status change of %s: %+v", id, err)
		return nil, &StorageError{Op: "commit status", Err: err}
	}

	u.log.Infof("Appointment status changed: id=%s, %s -> %s", id, before, next)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) History(ctx context.Context, id uuid.UUID) ([]dto.AuditEntryResponse, error) {
	logs, err := u.auditService.History(ctx, auditEntityAppointment, id.String())
	if err != nil {
		return nil, &StorageError{Op: "load audit history", Err: err}
	}
	return converter.AuditLogsToResponses(logs), nil
}

// generateBookingCode generates a unique booking code: APT-YYYYMMDD-XXXXXX
func generateBookingCode(date time.Time) (string, error) {
	dateStr := date.Format("20060102")
	randomBytes := make([]byte, 3)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	randomStr := fmt.Sprintf("%06X", randomBytes)
	return fmt.Sprintf("APT-%s-%s", dateStr, randomStr), nil
}
