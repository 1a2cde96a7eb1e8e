package routers

import (
	"Cloudnest/cmd"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRouter(app *fiber.App, server *cmd.Server) {
	uploadHandler := server.UploadHandler
	app.Post("/upload/init", uploadHandler.InitUpload)
	app.Post("/upload/chunk/:session_id", uploadHandler.UploadChunk)
	app.Post("/upload/complete/:session_id", uploadHandler.CompleteUpload)
}
