package routers

import (
	"Cloudnest/cmd"
	"Cloudnest/internal/handlers"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireOwner extracts the authenticated owner identity supplied by the auth
// collaborator in the X-User-ID header.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Get("X-User-ID"))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(map[string]interface{}{"error": "authentication required"})
		}
		c.Locals(handlers.OwnerIDKey, id)
		return c.Next()
	}
}

func SetupRoutes(app *fiber.App, server *cmd.Server) {
	app.Use(RequireOwner())
	SetupFileRouter(app, server)
	SetupUploadRouter(app, server)
	SetupTagRouter(app, server)
	SetupJanitorRouter(app, server)
}
