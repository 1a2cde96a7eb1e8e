package services

import (
	"Cloudnest/internal/models"
	"encoding/json"
	"mime"
	"path/filepath"
	"strings"
)

const DefaultMimeType = "application/octet-stream"

// Classify derives kind and category from a MIME type. Images are forced to
// the tree root; they are browsed flat, not filed into folders.
func Classify(mimeType, callerCategory string) (kind, category string, forceRoot bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.KindPhoto, models.CategoryPhoto, true
	case strings.HasPrefix(mimeType, "video/"):
		return models.KindVideo, models.CategoryVideo, false
	default:
		if callerCategory == "" {
			callerCategory = models.CategoryOther
		}
		return models.KindFile, strings.ToUpper(callerCategory), false
	}
}

// GuessMimeType resolves a MIME type from the filename extension, falling
// back to application/octet-stream.
func GuessMimeType(filename string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		return DefaultMimeType
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	return DefaultMimeType
}

// ParseMetadata accepts a serialized metadata object; a parse failure yields
// an empty map rather than failing the upload.
func ParseMetadata(raw string) json.RawMessage {
	if raw == "" {
		return json.RawMessage("{}")
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return json.RawMessage("{}")
	}
	return json.RawMessage(raw)
}
