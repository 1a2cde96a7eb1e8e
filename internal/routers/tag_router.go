package routers

import (
	"Cloudnest/cmd"

	"github.com/gofiber/fiber/v2"
)

func SetupTagRouter(app *fiber.App, server *cmd.Server) {
	tagHandler := server.TagHandler
	app.Get("/tags", tagHandler.ListTags)
	app.Post("/tags", tagHandler.CreateTag)
	app.Patch("/tags/:id", tagHandler.UpdateTag)
	app.Delete("/tags/:id", tagHandler.DeleteTag)
}
