package repository

import (
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindActiveByDentistAndDate returns the dentist's appointments on date,
	// excluding cancelled and no-show rows.
	FindActiveByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	FindByDentistAndDate(db *gorm.DB, dentistID uuid.UUID, date time.Time) ([]entity.Appointment, error)
	// LockDentistDay serializes writers for one dentist and date until the
	// surrounding transaction ends.
	LockDentistDay(db *gorm.DB, dentistID uuid.UUID, date time.Time) error
	CancelAppointment(db *gorm.DB, id uuid.UUID, reason string) (int64, error)
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
}
