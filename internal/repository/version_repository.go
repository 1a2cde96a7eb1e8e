package repository

import (
	"Cloudnest/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VersionRepository interface {
	Create(version *models.FileVersion) error
	MaxVersionNumber(fileNodeID uuid.UUID) (int, error)
	FindByNode(fileNodeID uuid.UUID) ([]models.FileVersion, error)
	DeleteByNode(fileNodeID uuid.UUID) error
}

type VersionRepositoryImpl struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &VersionRepositoryImpl{db: db}
}

func (r *VersionRepositoryImpl) Create(version *models.FileVersion) error {
	return r.db.Create(version).Error
}

func (r *VersionRepositoryImpl) MaxVersionNumber(fileNodeID uuid.UUID) (int, error) {
	var max int
	err := r.db.Model(&models.FileVersion{}).
		Where("file_node_id = ?", fileNodeID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&max).Error
	return max, err
}

// FindByNode returns versions newest-first.
func (r *VersionRepositoryImpl) FindByNode(fileNodeID uuid.UUID) ([]models.FileVersion, error) {
	var versions []models.FileVersion
	err := r.db.Where("file_node_id = ?", fileNodeID).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}

func (r *VersionRepositoryImpl) DeleteByNode(fileNodeID uuid.UUID) error {
	return r.db.Delete(&models.FileVersion{}, "file_node_id = ?", fileNodeID).Error
}
