package cmd

import (
	"Cloudnest/internal/handlers"
	"Cloudnest/internal/services"
)

type Server struct {
	NodeService    services.NodeService
	IngestService  services.IngestService
	UploadService  services.UploadService
	TagService     services.TagService
	FileHandler    *handlers.FileHandler
	UploadHandler  *handlers.UploadHandler
	TagHandler     *handlers.TagHandler
	LogService     services.LogService
	JanitorService *services.Janitor
}

func NewServer(
	nodeService services.NodeService,
	ingestService services.IngestService,
	uploadService services.UploadService,
	tagService services.TagService,
	fileHandler *handlers.FileHandler,
	uploadHandler *handlers.UploadHandler,
	tagHandler *handlers.TagHandler,
	logService services.LogService,
	janitorService *services.Janitor,
) *Server {
	return &Server{
		NodeService:    nodeService,
		IngestService:  ingestService,
		UploadService:  uploadService,
		TagService:     tagService,
		FileHandler:    fileHandler,
		UploadHandler:  uploadHandler,
		TagHandler:     tagHandler,
		LogService:     logService,
		JanitorService: janitorService,
	}
}
