package services

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/helpers"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"encoding/json"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NodePatch carries a partial update; nil fields are untouched. ParentID uses
// the wire convention: "root" reparents to the tree root.
type NodePatch struct {
	Name       *string          `json:"name"`
	ParentID   *string          `json:"parent"`
	Category   *string          `json:"category"`
	IsFavorite *bool            `json:"is_favorite"`
	Metadata   *json.RawMessage `json:"metadata"`
	TagIDs     *[]uuid.UUID     `json:"tag_ids"`
}

type UsageStats struct {
	TotalStorage    int64                      `json:"total_storage"`
	TotalFiles      int64                      `json:"total_files"`
	RecentUploads   []models.FileNode          `json:"recent_uploads"`
	UsageByCategory []repository.CategoryUsage `json:"usage_by_category"`
}

type QuotaStats struct {
	TotalGB        int     `json:"total_gb"`
	UsedBytes      int64   `json:"used_bytes"`
	RemainingBytes int64   `json:"remaining_bytes"`
	UsedPercent    float64 `json:"used_percent"`
}

type StorageStats struct {
	Disk  helpers.DiskStats `json:"disk"`
	Quota QuotaStats        `json:"quota"`
}

// Download is an open content stream plus the headers that describe it.
type Download struct {
	Content  io.ReadCloser
	Filename string
	MimeType string
}

type NodeService interface {
	List(ownerID uuid.UUID, filter repository.NodeFilter) ([]models.FileNode, error)
	Get(ownerID, id uuid.UUID) (*models.FileNode, error)
	CreateFolder(ownerID uuid.UUID, name string, parentID *uuid.UUID) (*models.FileNode, error)
	Update(ownerID, id uuid.UUID, patch NodePatch) (*models.FileNode, error)
	Delete(ownerID, id uuid.UUID) error
	OpenDownload(ownerID, id uuid.UUID, variant string) (*Download, error)
	Stats(ownerID uuid.UUID) (*UsageStats, error)
	StorageStats(ownerID uuid.UUID) (*StorageStats, error)
}

type NodeServiceImpl struct {
	nodeRepository    repository.NodeRepository
	versionRepository repository.VersionRepository
	tagRepository     repository.TagRepository
	blobService       BlobService
	quotaService      QuotaService
	logService        LogService
}

func NewNodeService(
	nodeRepository repository.NodeRepository,
	versionRepository repository.VersionRepository,
	tagRepository repository.TagRepository,
	blobService BlobService,
	quotaService QuotaService,
	logService LogService,
) NodeService {
	return &NodeServiceImpl{
		nodeRepository:    nodeRepository,
		versionRepository: versionRepository,
		tagRepository:     tagRepository,
		blobService:       blobService,
		quotaService:      quotaService,
		logService:        logService,
	}
}

func (s *NodeServiceImpl) List(ownerID uuid.UUID, filter repository.NodeFilter) ([]models.FileNode, error) {
	return s.nodeRepository.List(ownerID, filter)
}

func (s *NodeServiceImpl) Get(ownerID, id uuid.UUID) (*models.FileNode, error) {
	node, err := s.nodeRepository.FindOwnedWithRelations(id, ownerID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperr.NotFoundf("file %s", id)
	}
	return node, nil
}

func (s *NodeServiceImpl) CreateFolder(ownerID uuid.UUID, name string, parentID *uuid.UUID) (*models.FileNode, error) {
	if name == "" {
		return nil, apperr.Invalidf("folder name is required")
	}
	if parentID != nil {
		parent, err := s.nodeRepository.FindOwned(*parentID, ownerID)
		if err != nil {
			return nil, err
		}
		if parent == nil || !parent.IsFolder {
			return nil, apperr.Invalidf("parent folder not found")
		}
	}
	folder := &models.FileNode{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
		IsFolder: true,
		Kind:     models.KindFile,
		Category: models.CategoryOther,
		Metadata: json.RawMessage("{}"),
	}
	if err := s.nodeRepository.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *NodeServiceImpl) Update(ownerID, id uuid.UUID, patch NodePatch) (*models.FileNode, error) {
	node, err := s.nodeRepository.FindOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperr.NotFoundf("file %s", id)
	}

	if patch.Name != nil && *patch.Name != "" {
		node.Name = *patch.Name
	}
	if patch.Category != nil && *patch.Category != "" {
		node.Category = *patch.Category
	}
	if patch.IsFavorite != nil {
		node.IsFavorite = *patch.IsFavorite
	}
	if patch.Metadata != nil {
		node.Metadata = *patch.Metadata
	}
	if patch.ParentID != nil {
		parentID, err := s.resolveParent(ownerID, node, *patch.ParentID)
		if err != nil {
			return nil, err
		}
		node.ParentID = parentID
	}

	if err := s.nodeRepository.Update(node); err != nil {
		return nil, err
	}

	if patch.TagIDs != nil {
		tags, err := s.tagRepository.FindByIDs(ownerID, *patch.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.nodeRepository.ReplaceTags(node, tags); err != nil {
			return nil, err
		}
		node.Tags = tags
	}
	return node, nil
}

// resolveParent validates a reparent target: folders only, owned by the same
// user, and never the node itself or one of its descendants.
func (s *NodeServiceImpl) resolveParent(ownerID uuid.UUID, node *models.FileNode, raw string) (*uuid.UUID, error) {
	if raw == "" || raw == "root" {
		return nil, nil
	}
	parentID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Invalidf("invalid parent id")
	}
	parent, err := s.nodeRepository.FindOwned(parentID, ownerID)
	if err != nil {
		return nil, err
	}
	if parent == nil || !parent.IsFolder {
		return nil, apperr.Invalidf("parent folder not found")
	}
	if node.IsFolder {
		descendants, err := s.nodeRepository.Descendants(node.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			if d.ID == parentID {
				return nil, apperr.Invalidf("cannot move a folder into itself")
			}
		}
	}
	return &parentID, nil
}

// Delete releases content, thumbnail and version blobs for the node and all
// descendants, then soft-deletes the rows; the janitor purges them later.
func (s *NodeServiceImpl) Delete(ownerID, id uuid.UUID) error {
	node, err := s.nodeRepository.FindOwned(id, ownerID)
	if err != nil {
		return err
	}
	if node == nil {
		return apperr.NotFoundf("file %s", id)
	}

	doomed := []models.FileNode{*node}
	if node.IsFolder {
		doomed, err = s.nodeRepository.Descendants(node.ID)
		if err != nil {
			return err
		}
	}

	for i := range doomed {
		s.releaseBlobs(&doomed[i])
		if err := s.versionRepository.DeleteByNode(doomed[i].ID); err != nil {
			return err
		}
		if err := s.nodeRepository.Delete(doomed[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *NodeServiceImpl) releaseBlobs(node *models.FileNode) {
	versions, err := s.versionRepository.FindByNode(node.ID)
	if err == nil {
		for _, version := range versions {
			if err := s.blobService.Delete(version.ContentRef); err != nil {
				s.logService.Log.WithFields(logrus.Fields{
					"node":    node.ID,
					"version": version.VersionNumber,
					"error":   err.Error(),
				}).Warn("could not remove version content")
			}
		}
	}
	for _, ref := range []string{node.ContentRef, node.ThumbnailRef} {
		if ref == "" {
			continue
		}
		if err := s.blobService.Delete(ref); err != nil {
			s.logService.Log.WithFields(logrus.Fields{
				"node":  node.ID,
				"error": err.Error(),
			}).Warn("could not remove content")
		}
	}
}

func (s *NodeServiceImpl) OpenDownload(ownerID, id uuid.UUID, variant string) (*Download, error) {
	node, err := s.nodeRepository.FindOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, apperr.NotFoundf("file %s", id)
	}

	ref := node.ContentRef
	filename := node.Name
	mimeType := node.MimeType

	// Thumbnail variant falls back to the original when no preview exists.
	if variant == "thumbnail" && node.ThumbnailRef != "" {
		ref = node.ThumbnailRef
		filename = "thumb_" + filename
		mimeType = "image/jpeg"
	}
	if ref == "" {
		return nil, apperr.NotFoundf("file not found on server")
	}

	content, err := s.blobService.Open(ref)
	if err != nil {
		return nil, apperr.NotFoundf("file not found on server")
	}
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return &Download{Content: content, Filename: filename, MimeType: mimeType}, nil
}

func (s *NodeServiceImpl) Stats(ownerID uuid.UUID) (*UsageStats, error) {
	total, err := s.nodeRepository.SumSizes(ownerID)
	if err != nil {
		return nil, err
	}
	count, err := s.nodeRepository.CountOwned(ownerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.nodeRepository.Recent(ownerID, 5)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.nodeRepository.UsageByCategory(ownerID)
	if err != nil {
		return nil, err
	}
	return &UsageStats{
		TotalStorage:    total,
		TotalFiles:      count,
		RecentUploads:   recent,
		UsageByCategory: byCategory,
	}, nil
}

func (s *NodeServiceImpl) StorageStats(ownerID uuid.UUID) (*StorageStats, error) {
	used, err := s.quotaService.Usage(ownerID)
	if err != nil {
		return nil, err
	}
	quotaBytes := s.quotaService.QuotaBytes()

	quota := QuotaStats{
		TotalGB:        s.quotaService.QuotaGB(),
		UsedBytes:      used,
		RemainingBytes: quotaBytes - used,
	}
	if quota.RemainingBytes < 0 {
		quota.RemainingBytes = 0
	}
	if quotaBytes > 0 {
		quota.UsedPercent = math.Round(float64(used)/float64(quotaBytes)*10000) / 100
	}

	return &StorageStats{
		Disk:  helpers.GetDiskStats(s.blobService.Root()),
		Quota: quota,
	}, nil
}
