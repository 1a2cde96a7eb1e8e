package mapper

import (
	"Cloudnest/internal/dto"
	"Cloudnest/internal/models"
	"encoding/json"
)

func ToNodeGetDTO(node *models.FileNode) (*dto.NodeGetDTO, error) {
	var metadata map[string]interface{}
	if node.Metadata != nil {
		err := json.Unmarshal(node.Metadata, &metadata)
		if err != nil {
			return nil, err
		}
	}

	var parentID *string
	if node.ParentID != nil {
		s := node.ParentID.String()
		parentID = &s
	}

	tags := make([]dto.TagGetDTO, 0, len(node.Tags))
	for _, tag := range node.Tags {
		tags = append(tags, dto.TagGetDTO{
			ID:    tag.ID.String(),
			Name:  tag.Name,
			Color: tag.Color,
		})
	}

	versions := make([]dto.VersionGetDTO, 0, len(node.Versions))
	for _, version := range node.Versions {
		versions = append(versions, dto.VersionGetDTO{
			ID:            version.ID.String(),
			VersionNumber: version.VersionNumber,
			Size:          version.Size,
			CreatedAt:     version.CreatedAt,
		})
	}

	return &dto.NodeGetDTO{
		ID:           node.ID.String(),
		ParentID:     parentID,
		Name:         node.Name,
		Size:         node.Size,
		MimeType:     node.MimeType,
		FileType:     node.Kind,
		Category:     node.Category,
		Metadata:     metadata,
		IsFavorite:   node.IsFavorite,
		IsFolder:     node.IsFolder,
		HasThumbnail: node.ThumbnailRef != "",
		Tags:         tags,
		Versions:     versions,
		CreatedAt:    node.CreatedAt,
		UpdatedAt:    node.UpdatedAt,
	}, nil
}

func ToNodeGetDTOs(nodes []models.FileNode) ([]dto.NodeGetDTO, error) {
	nodeGetDTOs := make([]dto.NodeGetDTO, 0, len(nodes))
	for _, node := range nodes {
		nodeGetDTO, err := ToNodeGetDTO(&node)
		if err != nil {
			return nil, err
		}
		nodeGetDTOs = append(nodeGetDTOs, *nodeGetDTO)
	}
	return nodeGetDTOs, nil
}
