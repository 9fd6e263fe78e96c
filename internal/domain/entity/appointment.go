package entity

import (
	"time"

	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// InactiveAppointmentStatuses no longer occupy the dentist's calendar.
var InactiveAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// Appointment is a booking occupying a dentist's calendar for
// [StartMinute, StartMinute+DurationMinutes) on AppointmentDate.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DentistID       uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_dentist_date" json:"dentist_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ServiceID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"service_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index:idx_appointments_dentist_date" json:"appointment_date"`
	StartMinute     int               `gorm:"not null" json:"start_minute"`
	DurationMinutes int               `gorm:"not null" json:"duration_minutes"`
	TotalCost       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_cost"`
	BookingCode     string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CancelReason    string            `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Dentist DentistProfile `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
	Patient Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Service Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Interval returns the span the appointment occupies on its date
func (a *Appointment) Interval() scheduling.Interval {
	return scheduling.Interval{
		Start:    scheduling.Clock(a.StartMinute),
		Duration: a.DurationMinutes,
	}
}

// IsActive reports whether the appointment still blocks the calendar
func (a *Appointment) IsActive() bool {
	for _, s := range InactiveAppointmentStatuses {
		if a.Status == s {
			return false
		}
	}
	return true
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// CanTransitionTo reports whether the status change is allowed.
// Cancelled, completed and no-show are terminal.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case AppointmentStatusScheduled:
		return next != AppointmentStatusScheduled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled || next == AppointmentStatusNoShow
	default:
		return false
	}
}

// Intervals extracts the occupied intervals of active appointments
func Intervals(appointments []Appointment) []scheduling.Interval {
	out := make([]scheduling.Interval, 0, len(appointments))
	for i := range appointments {
		if !appointments[i].IsActive() {
			continue
		}
		out = append(out, appointments[i].Interval())
	}
	return out
}
