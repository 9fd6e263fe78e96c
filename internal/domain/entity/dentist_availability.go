package entity

import (
	"time"

	"github.com/google/uuid"
)

// DentistAvailability overrides the clinic window for one dentist on one date.
// StartTime and EndTime are "HH:MM".
type DentistAvailability struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DentistID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availability_dentist_date" json:"dentist_id"`
	AvailableDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_availability_dentist_date" json:"available_date"`
	StartTime     string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime       string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsDayOff      bool      `gorm:"not null;default:false" json:"is_day_off"`
	Note          string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Dentist DentistProfile `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
}

func (DentistAvailability) TableName() string {
	return "dentist_availabilities"
}

// AvailabilityFilter is a domain-level filter for querying availabilities.
type AvailabilityFilter struct {
	DentistID uuid.UUID
	StartAt   string // Format: YYYY-MM-DD
	EndAt     string // Format: YYYY-MM-DD
}
