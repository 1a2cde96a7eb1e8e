package routers

import (
	"Cloudnest/cmd"

	"github.com/gofiber/fiber/v2"
)

func SetupFileRouter(app *fiber.App, server *cmd.Server) {
	fileHandler := server.FileHandler
	app.Get("/files", fileHandler.ListFiles)
	app.Post("/files", fileHandler.CreateFile)
	app.Get("/files/stats", fileHandler.FileStats)
	app.Get("/files/:id", fileHandler.GetFile)
	app.Patch("/files/:id", fileHandler.UpdateFile)
	app.Delete("/files/:id", fileHandler.DeleteFile)
	app.Get("/files/:id/download", fileHandler.DownloadFile)
	app.Get("/storage/stats", fileHandler.StorageStats)
}
