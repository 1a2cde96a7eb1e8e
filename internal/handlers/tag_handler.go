package handlers

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/services"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TagHandler struct {
	service services.TagService
}

func NewTagHandler(service services.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.service.GetTags(ownerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Invalidf("invalid input"))
	}
	tag, err := h.service.CreateTag(ownerID(c), req.Name, req.Color)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(tag)
}

func (h *TagHandler) UpdateTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid tag id"))
	}
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Invalidf("invalid input"))
	}
	tag, err := h.service.UpdateTag(ownerID(c), id, req.Name, req.Color)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

func (h *TagHandler) DeleteTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, apperr.Invalidf("invalid tag id"))
	}
	if err := h.service.DeleteTag(ownerID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
