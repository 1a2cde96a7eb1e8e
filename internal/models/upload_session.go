package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UploadStatusInit       = "INIT"
	UploadStatusProcessing = "PROCESSING"
	UploadStatusCompleted  = "COMPLETED"
	UploadStatusFailed     = "FAILED"
)

// UploadSession tracks a chunked upload in flight. Temporary chunk storage on
// disk exists only while the status is INIT or PROCESSING.
type UploadSession struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"upload_id"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"owner_id"`
	Filename        string     `gorm:"type:varchar(255);not null" json:"filename"`
	FileSize        int64      `gorm:"not null" json:"file_size"`
	MimeType        string     `gorm:"type:varchar(100)" json:"mime_type,omitempty"`
	Status          string     `gorm:"type:varchar(12);not null;default:INIT" json:"status"`
	CompletedFileID *uuid.UUID `gorm:"type:uuid" json:"completed_file_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *UploadSession) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
