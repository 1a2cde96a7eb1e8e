package dto

import "time"

type NodeGetDTO struct {
	ID           string                 `json:"id"`
	ParentID     *string                `json:"parent_id,omitempty"`
	Name         string                 `json:"name"`
	Size         int64                  `json:"size"`
	MimeType     string                 `json:"mime_type,omitempty"`
	FileType     string                 `json:"file_type"`
	Category     string                 `json:"category"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	IsFavorite   bool                   `json:"is_favorite"`
	IsFolder     bool                   `json:"is_folder"`
	HasThumbnail bool                   `json:"has_thumbnail"`
	Tags         []TagGetDTO            `json:"tags,omitempty"`
	Versions     []VersionGetDTO        `json:"versions,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type TagGetDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type VersionGetDTO struct {
	ID            string    `json:"id"`
	VersionNumber int       `json:"version_number"`
	Size          int64     `json:"size"`
	CreatedAt     time.Time `json:"created_at"`
}
