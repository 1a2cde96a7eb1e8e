package services

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"

	"github.com/google/uuid"
)

type TagService interface {
	CreateTag(ownerID uuid.UUID, name, color string) (*models.Tag, error)
	GetTags(ownerID uuid.UUID) ([]models.Tag, error)
	UpdateTag(ownerID, id uuid.UUID, name, color string) (*models.Tag, error)
	DeleteTag(ownerID, id uuid.UUID) error
}

type TagServiceImpl struct {
	tagRepository repository.TagRepository
}

func NewTagService(tagRepository repository.TagRepository) TagService {
	return &TagServiceImpl{tagRepository: tagRepository}
}

func (s *TagServiceImpl) CreateTag(ownerID uuid.UUID, name, color string) (*models.Tag, error) {
	if name == "" {
		return nil, apperr.Invalidf("tag name is required")
	}
	tag := &models.Tag{OwnerID: ownerID, Name: name, Color: color}
	if err := s.tagRepository.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagServiceImpl) GetTags(ownerID uuid.UUID) ([]models.Tag, error) {
	return s.tagRepository.FindAllByOwner(ownerID)
}

func (s *TagServiceImpl) UpdateTag(ownerID, id uuid.UUID, name, color string) (*models.Tag, error) {
	tag, err := s.tagRepository.FindOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperr.NotFoundf("tag %s", id)
	}
	if name != "" {
		tag.Name = name
	}
	if color != "" {
		tag.Color = color
	}
	if err := s.tagRepository.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagServiceImpl) DeleteTag(ownerID, id uuid.UUID) error {
	tag, err := s.tagRepository.FindOwned(id, ownerID)
	if err != nil {
		return err
	}
	if tag == nil {
		return apperr.NotFoundf("tag %s", id)
	}
	return s.tagRepository.Delete(id)
}
