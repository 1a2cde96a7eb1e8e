package repository

import (
	"Cloudnest/internal/models"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NodeFilter narrows a listing. Folder is "" (no filter), "root", or a folder id.
type NodeFilter struct {
	Kind         string
	Category     string
	FavoriteOnly bool
	Folder       string
}

type CategoryUsage struct {
	Category  string `json:"category"`
	TotalSize int64  `json:"total_size"`
	Count     int64  `json:"count"`
}

type NodeRepository interface {
	GenericRepository[models.FileNode]
	FindOwned(id, ownerID uuid.UUID) (*models.FileNode, error)
	FindOwnedWithRelations(id, ownerID uuid.UUID) (*models.FileNode, error)
	FindFileByNameAndParent(ownerID uuid.UUID, parentID *uuid.UUID, name string) (*models.FileNode, error)
	List(ownerID uuid.UUID, filter NodeFilter) ([]models.FileNode, error)
	SumSizes(ownerID uuid.UUID) (int64, error)
	CountOwned(ownerID uuid.UUID) (int64, error)
	Recent(ownerID uuid.UUID, limit int) ([]models.FileNode, error)
	UsageByCategory(ownerID uuid.UUID) ([]CategoryUsage, error)
	Descendants(id uuid.UUID) ([]models.FileNode, error)
	ReplaceTags(node *models.FileNode, tags []models.Tag) error
	FindDeleted() ([]models.FileNode, error)
	HardDelete(id uuid.UUID) error
}

type NodeRepositoryImpl struct {
	GenericRepository[models.FileNode]
	db *gorm.DB
}

func NewNodeRepository(db *gorm.DB) NodeRepository {
	return &NodeRepositoryImpl{
		GenericRepository: NewGenericRepository[models.FileNode](db),
		db:                db,
	}
}

func (r *NodeRepositoryImpl) FindOwned(id, ownerID uuid.UUID) (*models.FileNode, error) {
	var node models.FileNode
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *NodeRepositoryImpl) FindOwnedWithRelations(id, ownerID uuid.UUID) (*models.FileNode, error) {
	var node models.FileNode
	err := r.db.
		Preload("Tags").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number DESC")
		}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

// FindFileByNameAndParent is the collision probe: non-folder siblings only.
func (r *NodeRepositoryImpl) FindFileByNameAndParent(ownerID uuid.UUID, parentID *uuid.UUID, name string) (*models.FileNode, error) {
	var node models.FileNode
	query := r.db.Where("owner_id = ? AND name = ? AND is_folder = ?", ownerID, name, false)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	err := query.First(&node).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

func (r *NodeRepositoryImpl) List(ownerID uuid.UUID, filter NodeFilter) ([]models.FileNode, error) {
	var nodes []models.FileNode
	query := r.db.Where("owner_id = ?", ownerID).
		Order("is_folder DESC, created_at DESC")

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	// Favorite listing spans the whole tree and ignores the parent filter.
	if filter.FavoriteOnly {
		query = query.Where("is_favorite = ?", true)
		err := query.Find(&nodes).Error
		return nodes, err
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	// Photos and videos are flat-listed; the folder scope only applies to the
	// FILE view.
	if filter.Kind == "" || filter.Kind == models.KindFile {
		switch filter.Folder {
		case "", "root":
			query = query.Where("parent_id IS NULL")
		default:
			query = query.Where("parent_id = ?", filter.Folder)
		}
	}

	err := query.Find(&nodes).Error
	return nodes, err
}

func (r *NodeRepositoryImpl) SumSizes(ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&models.FileNode{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	return total, err
}

func (r *NodeRepositoryImpl) CountOwned(ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.FileNode{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *NodeRepositoryImpl) Recent(ownerID uuid.UUID, limit int) ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&nodes).Error
	return nodes, err
}

func (r *NodeRepositoryImpl) UsageByCategory(ownerID uuid.UUID) ([]CategoryUsage, error) {
	var usage []CategoryUsage
	err := r.db.Model(&models.FileNode{}).
		Where("owner_id = ?", ownerID).
		Select("category, COALESCE(SUM(size), 0) AS total_size, COUNT(id) AS count").
		Group("category").
		Scan(&usage).Error
	return usage, err
}

// Descendants returns the node and everything below it.
func (r *NodeRepositoryImpl) Descendants(id uuid.UUID) ([]models.FileNode, error) {
	var nodes []models.FileNode
	query := `
        WITH RECURSIVE descendants AS (
            SELECT id
            FROM file_nodes
            WHERE id = ?

            UNION ALL

            SELECT n.id
            FROM file_nodes n
            INNER JOIN descendants d ON n.parent_id = d.id
        )
        SELECT * FROM file_nodes WHERE id IN (SELECT id FROM descendants) AND deleted_at IS NULL;
    `
	err := r.db.Raw(query, id).Scan(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *NodeRepositoryImpl) ReplaceTags(node *models.FileNode, tags []models.Tag) error {
	return r.db.Model(node).Association("Tags").Replace(tags)
}

func (r *NodeRepositoryImpl) FindDeleted() ([]models.FileNode, error) {
	var nodes []models.FileNode
	err := r.db.Unscoped().Where("deleted_at IS NOT NULL").Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *NodeRepositoryImpl) HardDelete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM file_versions WHERE file_node_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM file_node_tags WHERE file_node_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.FileNode{}, "id = ?", id).Error
	})
}
