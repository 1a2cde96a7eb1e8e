//go:build wireinject
// +build wireinject

package main

import (
	"Cloudnest/cmd"
	"Cloudnest/database"
	"Cloudnest/internal/config"
	"Cloudnest/internal/handlers"
	"Cloudnest/internal/repository"
	"Cloudnest/internal/services"
	"github.com/google/wire"
)

func Provider() (*config.Configuration, error) {
	return config.LoadConfiguration("cloudnest.yaml")
}

func InitializeServer() (*cmd.Server, error) {
	wire.Build(
		cmd.NewServer,
		database.SetupDatabase,
		repository.NewNodeRepository,
		repository.NewVersionRepository,
		repository.NewTagRepository,
		repository.NewUploadRepository,
		services.NewLogService,
		services.NewBlobService,
		services.NewQuotaService,
		services.NewImagingProducer,
		services.NewThumbnailService,
		services.NewIngestService,
		services.NewUploadService,
		services.NewNodeService,
		services.NewTagService,
		services.NewAuditor,
		services.NewJanitorService,
		handlers.NewFileHandler,
		handlers.NewUploadHandler,
		handlers.NewTagHandler,
		Provider,
	)
	return nil, nil
}
