package services

import (
	"Cloudnest/internal/config"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	cfg      *config.Configuration
	nodes    repository.NodeRepository
	versions repository.VersionRepository
	tags     repository.TagRepository
	uploads  repository.UploadRepository
	blobs    BlobService
	quota    QuotaService
	thumbs   ThumbnailService
	ingest   IngestService
	upload   UploadService
	nodeSvc  NodeService
	logSvc   LogService
}

func newTestEnv(t *testing.T, quotaGB int) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	err = db.AutoMigrate(&models.FileNode{}, &models.FileVersion{}, &models.Tag{}, &models.UploadSession{})
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Configuration{}
	cfg.Storage.Path = t.TempDir()
	cfg.Quota.DefaultGB = quotaGB
	cfg.Server.CleanConfig.UploadTTLHours = 24

	env := &testEnv{db: db, cfg: cfg}
	env.nodes = repository.NewNodeRepository(db)
	env.versions = repository.NewVersionRepository(db)
	env.tags = repository.NewTagRepository(db)
	env.uploads = repository.NewUploadRepository(db)
	env.logSvc = NewLogService(cfg)
	env.blobs = NewBlobService(cfg)
	env.quota = NewQuotaService(env.nodes, cfg)
	env.thumbs = NewThumbnailService(NewImagingProducer(), env.blobs, env.nodes)
	env.ingest = NewIngestService(env.nodes, env.versions, env.blobs, env.quota, env.thumbs, env.logSvc)
	env.upload = NewUploadService(env.uploads, env.blobs, env.ingest, env.logSvc)
	env.nodeSvc = NewNodeService(env.nodes, env.versions, env.tags, env.blobs, env.quota, env.logSvc)
	return env
}

func (e *testEnv) readBlob(t *testing.T, ref string) []byte {
	t.Helper()
	rc, err := e.blobs.Open(ref)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, width, height int, withAlpha bool) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	alpha := uint8(255)
	if withAlpha {
		alpha = 128
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: alpha})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
