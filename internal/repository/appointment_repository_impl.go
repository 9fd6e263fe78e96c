package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	domainRepo "github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Dentist", "Patient", "Service").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Service").Preload("Patient").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.
		Where("dentist_id = ? AND appointment_date = ? AND status NOT IN ?", dentistID, date.Format(dateLayout), entity.InactiveAppointmentStatuses).
		Order("start_minute ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Service").Preload("Patient").
		Where("dentist_id = ? AND appointment_date = ?", dentistID, date.Format(dateLayout)).
		Order("start_minute ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// LockDentistDay takes a transaction-scoped advisory lock keyed on the
// dentist and date. Must be called inside a transaction.
func (r *appointmentRepository) LockDentistDay(db *gorm.DB, dentistID uuid.UUID, date time.Time) error {
	key := fmt.Sprintf("appointments:%s:%s", dentistID, date.Format(dateLayout))
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// CancelAppointment atomically cancels an appointment ONLY if it's still active.
// Returns affected rows: 1 = success, 0 = already inactive.
func (r *appointmentRepository) CancelAppointment(db *gorm.DB, id uuid.UUID, reason string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status NOT IN ?", id, entity.InactiveAppointmentStatuses).
		Updates(map[string]interface{}{
			"status":        entity.AppointmentStatusCancelled,
			"cancel_reason": reason,
		})
	return result.RowsAffected, result.Error
}

// UpdateStatus moves an appointment from one status to another, guarding
// against concurrent transitions.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}
