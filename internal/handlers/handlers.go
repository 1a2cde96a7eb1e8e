package handlers

import (
	"Cloudnest/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OwnerIDKey is set by the identity middleware from the authenticated owner
// supplied by the auth collaborator.
const OwnerIDKey = "ownerID"

func ownerID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(OwnerIDKey).(uuid.UUID)
	return id
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.Status(err)).JSON(map[string]interface{}{"error": err.Error()})
}

// parseParent resolves the wire parent convention: "" and "root" mean the
// tree root.
func parseParent(raw string) (*uuid.UUID, error) {
	if raw == "" || raw == "root" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Invalidf("invalid parent id")
	}
	return &id, nil
}
