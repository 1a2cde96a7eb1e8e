package repository

import (
	"Cloudnest/internal/models"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagRepository interface {
	GenericRepository[models.Tag]
	FindOwned(id, ownerID uuid.UUID) (*models.Tag, error)
	FindAllByOwner(ownerID uuid.UUID) ([]models.Tag, error)
	FindByIDs(ownerID uuid.UUID, ids []uuid.UUID) ([]models.Tag, error)
}

type TagRepositoryImpl struct {
	GenericRepository[models.Tag]
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{
		GenericRepository: NewGenericRepository[models.Tag](db),
		db:                db,
	}
}

func (r *TagRepositoryImpl) FindOwned(id, ownerID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepositoryImpl) FindAllByOwner(ownerID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Where("owner_id = ?", ownerID).Order("name").Find(&tags).Error
	return tags, err
}

func (r *TagRepositoryImpl) FindByIDs(ownerID uuid.UUID, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&tags).Error
	return tags, err
}
