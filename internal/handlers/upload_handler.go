package handlers

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/mapper"
	"Cloudnest/internal/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UploadHandler struct {
	uploadService services.UploadService
	auditor       services.Auditor
}

func NewUploadHandler(uploadService services.UploadService, auditor services.Auditor) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, auditor: auditor}
}

func (h *UploadHandler) InitUpload(c *fiber.Ctx) error {
	var req struct {
		Filename string `json:"filename" form:"filename"`
		FileSize int64  `json:"file_size" form:"file_size"`
		MimeType string `json:"mime_type" form:"mime_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Invalidf("invalid input"))
	}

	session, err := h.uploadService.Init(ownerID(c), req.Filename, req.FileSize, req.MimeType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"upload_id": session.ID})
}

func (h *UploadHandler) UploadChunk(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid session id"))
	}

	chunkHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.Invalidf("file and chunk_index are required"))
	}
	rawIndex := c.FormValue("chunk_index")
	if rawIndex == "" {
		return respondError(c, apperr.Invalidf("file and chunk_index are required"))
	}
	chunkIndex, err := strconv.Atoi(rawIndex)
	if err != nil || chunkIndex < 0 {
		return respondError(c, apperr.Invalidf("invalid chunk_index"))
	}

	chunk, err := chunkHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer chunk.Close()

	if err := h.uploadService.PutChunk(ownerID(c), sessionID, chunkIndex, chunk); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "received"})
}

func (h *UploadHandler) CompleteUpload(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid session id"))
	}

	var req struct {
		ParentID string `json:"parent_id" form:"parent_id"`
		Metadata string `json:"metadata" form:"metadata"`
	}
	// Body is optional on complete.
	_ = c.BodyParser(&req)

	parentID, err := parseParent(req.ParentID)
	if err != nil {
		return respondError(c, err)
	}

	owner := ownerID(c)
	node, err := h.uploadService.Complete(owner, sessionID, parentID, req.Metadata)
	if err != nil {
		return respondError(c, err)
	}

	h.auditor.Record(owner, "file.upload.chunked", c.IP(), node.Name)

	nodeDTO, err := mapper.ToNodeGetDTO(node)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nodeDTO)
}
