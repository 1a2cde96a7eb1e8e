package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileVersion is an immutable snapshot of a FileNode's superseded content.
// Version numbers per node start at 1 and only ever grow.
type FileVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FileNodeID    uuid.UUID `gorm:"type:uuid;index;not null" json:"file_node_id"`
	VersionNumber int       `gorm:"not null" json:"version_number"`
	Size          int64     `gorm:"default:0" json:"size"`
	ContentRef    string    `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (v *FileVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
