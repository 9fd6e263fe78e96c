package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic patient record. Patients do not log in; staff book on
// their behalf.
type Patient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName    string    `gorm:"type:varchar(255);not null;index" json:"full_name"`
	PhoneNumber string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	DateOfBirth time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender      string    `gorm:"type:char(1)" json:"gender,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
