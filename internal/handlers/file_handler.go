package handlers

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/mapper"
	"Cloudnest/internal/repository"
	"Cloudnest/internal/services"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FileHandler struct {
	nodeService   services.NodeService
	ingestService services.IngestService
	auditor       services.Auditor
}

func NewFileHandler(
	nodeService services.NodeService,
	ingestService services.IngestService,
	auditor services.Auditor,
) *FileHandler {
	return &FileHandler{
		nodeService:   nodeService,
		ingestService: ingestService,
		auditor:       auditor,
	}
}

func (h *FileHandler) ListFiles(c *fiber.Ctx) error {
	filter := repository.NodeFilter{
		Kind:         strings.ToUpper(c.Query("type")),
		Category:     strings.ToUpper(c.Query("category")),
		FavoriteOnly: c.Query("favorite") == "true",
		Folder:       c.Query("folder"),
	}

	nodes, err := h.nodeService.List(ownerID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	nodeDTOs, err := mapper.ToNodeGetDTOs(nodes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nodeDTOs)
}

func (h *FileHandler) CreateFile(c *fiber.Ctx) error {
	owner := ownerID(c)

	if c.FormValue("is_folder") == "true" {
		return h.createFolder(c, owner)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.Invalidf("file is required"))
	}
	parentID, err := parseParent(c.FormValue("parent"))
	if err != nil {
		return respondError(c, err)
	}

	content, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer content.Close()

	node, err := h.ingestService.Ingest(owner, services.Upload{
		Name:     fileHeader.Filename,
		Size:     fileHeader.Size,
		Category: c.FormValue("category"),
		Metadata: services.ParseMetadata(c.FormValue("metadata")),
		ParentID: parentID,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err)
	}

	h.auditor.Record(owner, "file.upload", c.IP(), node.Name)

	nodeDTO, err := mapper.ToNodeGetDTO(node)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(nodeDTO)
}

func (h *FileHandler) createFolder(c *fiber.Ctx, owner uuid.UUID) error {
	parentID, err := parseParent(c.FormValue("parent"))
	if err != nil {
		return respondError(c, err)
	}
	folder, err := h.nodeService.CreateFolder(owner, c.FormValue("name"), parentID)
	if err != nil {
		return respondError(c, err)
	}
	folderDTO, err := mapper.ToNodeGetDTO(folder)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(folderDTO)
}

func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid file id"))
	}
	node, err := h.nodeService.Get(ownerID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	nodeDTO, err := mapper.ToNodeGetDTO(node)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nodeDTO)
}

func (h *FileHandler) UpdateFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid file id"))
	}
	var patch services.NodePatch
	if err := c.BodyParser(&patch); err != nil {
		return respondError(c, apperr.Invalidf("invalid input"))
	}
	node, err := h.nodeService.Update(ownerID(c), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	nodeDTO, err := mapper.ToNodeGetDTO(node)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nodeDTO)
}

func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid file id"))
	}
	owner := ownerID(c)
	if err := h.nodeService.Delete(owner, id); err != nil {
		return respondError(c, err)
	}
	h.auditor.Record(owner, "file.delete", c.IP(), id.String())
	return c.SendStatus(http.StatusNoContent)
}

func (h *FileHandler) DownloadFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid file id"))
	}
	download, err := h.nodeService.OpenDownload(ownerID(c), id, c.Query("variant"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", download.MimeType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	return c.SendStream(download.Content)
}

func (h *FileHandler) FileStats(c *fiber.Ctx) error {
	stats, err := h.nodeService.Stats(ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	recent, err := mapper.ToNodeGetDTOs(stats.RecentUploads)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total_storage":     stats.TotalStorage,
		"total_files":       stats.TotalFiles,
		"recent_uploads":    recent,
		"usage_by_category": stats.UsageByCategory,
	})
}

func (h *FileHandler) StorageStats(c *fiber.Ctx) error {
	stats, err := h.nodeService.StorageStats(ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
