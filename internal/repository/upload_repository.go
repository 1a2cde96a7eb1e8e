package repository

import (
	"Cloudnest/internal/models"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(session *models.UploadSession) error
	FindOwned(id, ownerID uuid.UUID) (*models.UploadSession, error)
	Update(session *models.UploadSession) error
	FindStale(before time.Time) ([]models.UploadSession, error)
}

type UploadRepositoryImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(session *models.UploadSession) error {
	return r.db.Create(session).Error
}

func (r *UploadRepositoryImpl) FindOwned(id, ownerID uuid.UUID) (*models.UploadSession, error) {
	var session models.UploadSession
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *UploadRepositoryImpl) Update(session *models.UploadSession) error {
	return r.db.Save(session).Error
}

// FindStale returns sessions still holding chunk storage past their welcome.
func (r *UploadRepositoryImpl) FindStale(before time.Time) ([]models.UploadSession, error) {
	var sessions []models.UploadSession
	err := r.db.Where("status IN ? AND updated_at < ?",
		[]string{models.UploadStatusInit, models.UploadStatusProcessing}, before).
		Find(&sessions).Error
	return sessions, err
}
