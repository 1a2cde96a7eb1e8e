package services

import (
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Upload is one incoming file, single-shot or assembled from chunks.
type Upload struct {
	Name     string
	Size     int64
	MimeType string
	Category string
	Metadata json.RawMessage
	ParentID *uuid.UUID
	Content  io.Reader
}

// IngestService runs the write pipeline: quota check, classification,
// version archiving on name collision, content write, metadata persist,
// then the thumbnail side step.
type IngestService interface {
	Ingest(ownerID uuid.UUID, upload Upload) (*models.FileNode, error)
}

type IngestServiceImpl struct {
	nodeRepository    repository.NodeRepository
	versionRepository repository.VersionRepository
	blobService       BlobService
	quotaService      QuotaService
	thumbnailService  ThumbnailService
	logService        LogService
}

func NewIngestService(
	nodeRepository repository.NodeRepository,
	versionRepository repository.VersionRepository,
	blobService BlobService,
	quotaService QuotaService,
	thumbnailService ThumbnailService,
	logService LogService,
) IngestService {
	return &IngestServiceImpl{
		nodeRepository:    nodeRepository,
		versionRepository: versionRepository,
		blobService:       blobService,
		quotaService:      quotaService,
		thumbnailService:  thumbnailService,
		logService:        logService,
	}
}

func (s *IngestServiceImpl) Ingest(ownerID uuid.UUID, upload Upload) (*models.FileNode, error) {
	if err := s.quotaService.Check(ownerID, upload.Size); err != nil {
		return nil, err
	}

	if upload.MimeType == "" {
		upload.MimeType = GuessMimeType(upload.Name)
	}
	kind, category, forceRoot := Classify(upload.MimeType, upload.Category)
	if forceRoot {
		upload.ParentID = nil
	}
	if upload.Metadata == nil {
		upload.Metadata = json.RawMessage("{}")
	}

	existing, err := s.nodeRepository.FindFileByNameAndParent(ownerID, upload.ParentID, upload.Name)
	if err != nil {
		return nil, err
	}

	node, version := s.transition(ownerID, existing, upload, kind, category)

	contentRef := s.blobService.ContentRef(ownerID, upload.Name)
	written, sha256sum, err := s.blobService.Save(contentRef, upload.Content)
	if err != nil {
		return nil, err
	}
	oldContentRef := node.ContentRef
	node.ContentRef = contentRef
	node.SHA256 = sha256sum
	if node.Size == 0 {
		node.Size = written
	}

	if existing != nil {
		if err := s.nodeRepository.Update(node); err != nil {
			return nil, err
		}
		// The superseded bytes live on as a version copy; the old primary
		// blob is only safe to drop once that copy exists.
		if version != nil && oldContentRef != "" {
			if err := s.blobService.Delete(oldContentRef); err != nil {
				s.logService.Log.WithFields(logrus.Fields{
					"node":  node.ID,
					"error": err.Error(),
				}).Warn("could not remove superseded content")
			}
		}
	} else {
		if err := s.nodeRepository.Create(node); err != nil {
			return nil, err
		}
	}

	if err := s.thumbnailService.EnsureThumbnail(node); err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"node":  node.ID,
			"error": err.Error(),
		}).Error("thumbnail generation failed")
	}

	return node, nil
}

// transition computes the post-ingest state of the node and, on collision
// with archivable content, writes the FileVersion snapshot. Archiving is best
// effort: a failed snapshot is logged and the overwrite proceeds.
func (s *IngestServiceImpl) transition(
	ownerID uuid.UUID,
	existing *models.FileNode,
	upload Upload,
	kind, category string,
) (*models.FileNode, *models.FileVersion) {
	if existing == nil {
		return &models.FileNode{
			OwnerID:  ownerID,
			ParentID: upload.ParentID,
			Name:     upload.Name,
			Size:     upload.Size,
			MimeType: upload.MimeType,
			Kind:     kind,
			Category: category,
			Metadata: upload.Metadata,
		}, nil
	}

	var version *models.FileVersion
	if existing.ContentRef != "" {
		version = s.archiveVersion(existing)
	}

	existing.Size = upload.Size
	existing.MimeType = upload.MimeType
	existing.Kind = kind
	existing.Category = category
	if len(upload.Metadata) > 0 && string(upload.Metadata) != "{}" {
		existing.Metadata = upload.Metadata
	}
	return existing, version
}

func (s *IngestServiceImpl) archiveVersion(existing *models.FileNode) *models.FileVersion {
	next, err := s.versionRepository.MaxVersionNumber(existing.ID)
	if err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"node":  existing.ID,
			"error": err.Error(),
		}).Error("could not determine next version number")
		return nil
	}
	next++

	versionRef := s.blobService.VersionRef(existing.ID, next, existing.Name)
	if _, err := s.blobService.Copy(existing.ContentRef, versionRef); err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"node":    existing.ID,
			"version": next,
			"error":   err.Error(),
		}).Error("could not archive superseded content")
		return nil
	}

	version := &models.FileVersion{
		FileNodeID:    existing.ID,
		VersionNumber: next,
		Size:          existing.Size,
		ContentRef:    versionRef,
	}
	if err := s.versionRepository.Create(version); err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"node":    existing.ID,
			"version": next,
			"error":   err.Error(),
		}).Error("could not persist version record")
		return nil
	}
	return version
}
