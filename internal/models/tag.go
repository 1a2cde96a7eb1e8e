package models

import (
	"github.com/google/uuid"
)

// Tag is a user-scoped label; (owner, name) is unique.
type Tag struct {
	BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tags_owner_name" json:"owner_id"`
	Name    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_tags_owner_name" json:"name"`
	Color   string    `gorm:"type:varchar(20)" json:"color,omitempty"`
}
