package handlers_test

import (
	"Cloudnest/cmd"
	"Cloudnest/internal/config"
	"Cloudnest/internal/handlers"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"Cloudnest/internal/routers"
	"Cloudnest/internal/services"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
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
	cfg.Quota.DefaultGB = 1
	cfg.Server.CleanConfig.Schedule = "@hourly"
	cfg.Server.CleanConfig.UploadTTLHours = 24

	nodeRepository := repository.NewNodeRepository(db)
	versionRepository := repository.NewVersionRepository(db)
	tagRepository := repository.NewTagRepository(db)
	uploadRepository := repository.NewUploadRepository(db)
	logService := services.NewLogService(cfg)
	blobService := services.NewBlobService(cfg)
	quotaService := services.NewQuotaService(nodeRepository, cfg)
	thumbnailService := services.NewThumbnailService(services.NewImagingProducer(), blobService, nodeRepository)
	ingestService := services.NewIngestService(nodeRepository, versionRepository, blobService, quotaService, thumbnailService, logService)
	uploadService := services.NewUploadService(uploadRepository, blobService, ingestService, logService)
	nodeService := services.NewNodeService(nodeRepository, versionRepository, tagRepository, blobService, quotaService, logService)
	tagService := services.NewTagService(tagRepository)
	auditor := services.NewAuditor(logService)
	janitor := services.NewJanitorService(nodeRepository, uploadRepository, blobService, logService, cfg)

	server := cmd.NewServer(
		nodeService,
		ingestService,
		uploadService,
		tagService,
		handlers.NewFileHandler(nodeService, ingestService, auditor),
		handlers.NewUploadHandler(uploadService, auditor),
		handlers.NewTagHandler(tagService),
		logService,
		janitor,
	)

	app := fiber.New()
	routers.SetupRoutes(app, server)
	return app
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		assert.NoError(t, err)
		_, err = part.Write(content)
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doRequest(t *testing.T, app *fiber.App, method, target, owner string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if owner != "" {
		req.Header.Set("X-User-ID", owner)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestFileHandler_RequiresIdentity(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/files", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFileHandler_UploadListDownload(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	body, contentType := multipartBody(t, map[string]string{"metadata": `{"origin":"scan"}`}, "file", "notes.txt", []byte("hello"))
	resp := doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	decodeJSON(t, resp, &created)
	assert.Equal(t, "notes.txt", created["name"])
	assert.Equal(t, "FILE", created["file_type"])
	id := created["id"].(string)

	resp = doRequest(t, app, http.MethodGet, "/files", owner, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	decodeJSON(t, resp, &listed)
	assert.Len(t, listed, 1)

	resp = doRequest(t, app, http.MethodGet, "/files/"+id+"/download", owner, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	downloaded, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, []byte("hello"), downloaded)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "notes.txt")

	// Another owner cannot see or fetch it.
	resp = doRequest(t, app, http.MethodGet, "/files/"+id, uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFileHandler_CreateFolderAndScopedListing(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	body, contentType := multipartBody(t, map[string]string{"is_folder": "true", "name": "docs"}, "", "", nil)
	resp := doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var folder map[string]interface{}
	decodeJSON(t, resp, &folder)
	assert.Equal(t, true, folder["is_folder"])
	folderID := folder["id"].(string)

	body, contentType = multipartBody(t, map[string]string{"parent": folderID}, "file", "inside.txt", []byte("x"))
	resp = doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/files?folder="+folderID, owner, nil, "")
	var listed []map[string]interface{}
	decodeJSON(t, resp, &listed)
	assert.Len(t, listed, 1)
	assert.Equal(t, "inside.txt", listed[0]["name"])

	resp = doRequest(t, app, http.MethodGet, "/files?folder=root", owner, nil, "")
	decodeJSON(t, resp, &listed)
	assert.Len(t, listed, 1)
	assert.Equal(t, "docs", listed[0]["name"])
}

func TestFileHandler_VersioningOnCollision(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	body, contentType := multipartBody(t, nil, "file", "a.txt", []byte("first"))
	resp := doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var first map[string]interface{}
	decodeJSON(t, resp, &first)

	body, contentType = multipartBody(t, nil, "file", "a.txt", []byte("second"))
	resp = doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var second map[string]interface{}
	decodeJSON(t, resp, &second)
	assert.Equal(t, first["id"], second["id"])

	resp = doRequest(t, app, http.MethodGet, "/files/"+first["id"].(string), owner, nil, "")
	var detail map[string]interface{}
	decodeJSON(t, resp, &detail)
	versions := detail["versions"].([]interface{})
	assert.Len(t, versions, 1)
	assert.Equal(t, float64(1), versions[0].(map[string]interface{})["version_number"])
}

func TestFileHandler_QuotaRejection(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	// Declared sizes count against the 1 GB ceiling even when the test
	// payload is tiny, so an oversized chunked upload is the cheap probe.
	initBody := bytes.NewBufferString(fmt.Sprintf(`{"filename":"huge.bin","file_size":%d}`, int64(2)<<30))
	resp := doRequest(t, app, http.MethodPost, "/upload/init", owner, initBody, fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var initResp map[string]interface{}
	decodeJSON(t, resp, &initResp)
	sessionID := initResp["upload_id"].(string)

	body, contentType := multipartBody(t, map[string]string{"chunk_index": "0"}, "file", "blob", []byte("x"))
	resp = doRequest(t, app, http.MethodPost, "/upload/chunk/"+sessionID, owner, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/upload/complete/"+sessionID, owner, nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var failure map[string]interface{}
	decodeJSON(t, resp, &failure)
	assert.Contains(t, failure["error"], "quota")
}

func TestFileHandler_PatchAndDelete(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	body, contentType := multipartBody(t, nil, "file", "a.txt", []byte("x"))
	resp := doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	var created map[string]interface{}
	decodeJSON(t, resp, &created)
	id := created["id"].(string)

	patch := bytes.NewBufferString(`{"is_favorite":true,"name":"b.txt"}`)
	resp = doRequest(t, app, http.MethodPatch, "/files/"+id, owner, patch, fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]interface{}
	decodeJSON(t, resp, &updated)
	assert.Equal(t, true, updated["is_favorite"])
	assert.Equal(t, "b.txt", updated["name"])

	resp = doRequest(t, app, http.MethodDelete, "/files/"+id, owner, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/files/"+id, owner, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFileHandler_Stats(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.NewString()

	body, contentType := multipartBody(t, map[string]string{"category": "FINANCE"}, "file", "bill.pdf", []byte("12345"))
	resp := doRequest(t, app, http.MethodPost, "/files", owner, body, contentType)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/files/stats", owner, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats map[string]interface{}
	decodeJSON(t, resp, &stats)
	assert.Equal(t, float64(5), stats["total_storage"])
	assert.Equal(t, float64(1), stats["total_files"])

	resp = doRequest(t, app, http.MethodGet, "/storage/stats", owner, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var storage map[string]interface{}
	decodeJSON(t, resp, &storage)
	quota := storage["quota"].(map[string]interface{})
	assert.Equal(t, float64(1), quota["total_gb"])
	assert.Equal(t, float64(5), quota["used_bytes"])
}
