package repository

import (
	"github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/entity"
	domainRepo "github.com/LeeDev428/smile-republic-dcms-sub000/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Exists(db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&entity.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
