package entity

import "github.com/google/uuid"

// DentistProfile represents dentist-specific profile data
type DentistProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNumber  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`

	// Relationships
	User           User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Availabilities []DentistAvailability `gorm:"foreignKey:DentistID" json:"availabilities,omitempty"`
}

func (DentistProfile) TableName() string {
	return "dentist_profiles"
}
