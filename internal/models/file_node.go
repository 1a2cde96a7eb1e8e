package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	KindPhoto = "PHOTO"
	KindVideo = "VIDEO"
	KindFile  = "FILE"
)

const (
	CategoryDocument = "DOCUMENT"
	CategoryMedical  = "MEDICAL"
	CategoryFinance  = "FINANCE"
	CategoryPhoto    = "PHOTO"
	CategoryVideo    = "VIDEO"
	CategoryOther    = "OTHER"
)

// FileNode is a file or folder in a user's tree. Folders have Size 0 and no
// content reference; the parent relation forms a forest rooted at ParentID=nil.
type FileNode struct {
	BaseModel
	OwnerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"owner_id"`
	ParentID     *uuid.UUID      `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Size         int64           `gorm:"default:0" json:"size"`
	MimeType     string          `gorm:"type:varchar(100)" json:"mime_type,omitempty"`
	Kind         string          `gorm:"type:varchar(10);not null;default:FILE" json:"file_type"`
	Category     string          `gorm:"type:varchar(20);not null;default:OTHER" json:"category"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsFavorite   bool            `gorm:"default:false" json:"is_favorite"`
	IsFolder     bool            `gorm:"default:false" json:"is_folder"`
	SHA256       string          `gorm:"type:char(64)" json:"sha256,omitempty"`
	ContentRef   string          `gorm:"type:text" json:"-"`
	ThumbnailRef string          `gorm:"type:text" json:"-"`
	Tags         []Tag           `gorm:"many2many:file_node_tags" json:"tags,omitempty"`
	Versions     []FileVersion   `gorm:"foreignKey:FileNodeID" json:"versions,omitempty"`
}
