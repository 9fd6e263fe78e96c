package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Exists(db *gorm.DB, id uuid.UUID) (bool, error)
}
