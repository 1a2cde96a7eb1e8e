package services

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNodeService_CreateFolder(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	folder, err := env.nodeSvc.CreateFolder(owner, "docs", nil)
	assert.NoError(t, err)
	assert.True(t, folder.IsFolder)
	assert.Equal(t, int64(0), folder.Size)

	_, err = env.nodeSvc.CreateFolder(owner, "", nil)
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	missing := uuid.New()
	_, err = env.nodeSvc.CreateFolder(owner, "nested", &missing)
	assert.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestNodeService_UpdateFavoriteAndRename(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	node, err := env.ingest.Ingest(owner, Upload{Name: "a.txt", Size: 1, Content: strings.NewReader("x")})
	assert.NoError(t, err)

	name := "renamed.txt"
	favorite := true
	metadata := json.RawMessage(`{"reviewed":true}`)
	updated, err := env.nodeSvc.Update(owner, node.ID, NodePatch{
		Name:       &name,
		IsFavorite: &favorite,
		Metadata:   &metadata,
	})
	assert.NoError(t, err)
	assert.Equal(t, "renamed.txt", updated.Name)
	assert.True(t, updated.IsFavorite)
	assert.JSONEq(t, `{"reviewed":true}`, string(updated.Metadata))
}

func TestNodeService_ReparentRejectsCycles(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	outer, err := env.nodeSvc.CreateFolder(owner, "outer", nil)
	assert.NoError(t, err)
	inner, err := env.nodeSvc.CreateFolder(owner, "inner", &outer.ID)
	assert.NoError(t, err)

	// A folder cannot move under its own descendant.
	target := inner.ID.String()
	_, err = env.nodeSvc.Update(owner, outer.ID, NodePatch{ParentID: &target})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	// Moving to root is always fine.
	root := "root"
	moved, err := env.nodeSvc.Update(owner, inner.ID, NodePatch{ParentID: &root})
	assert.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestNodeService_UpdateWrongOwner(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	node, err := env.ingest.Ingest(owner, Upload{Name: "a.txt", Size: 1, Content: strings.NewReader("x")})
	assert.NoError(t, err)

	favorite := true
	_, err = env.nodeSvc.Update(uuid.New(), node.ID, NodePatch{IsFavorite: &favorite})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNodeService_DeleteReleasesEverything(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	node, err := env.ingest.Ingest(owner, Upload{Name: "a.txt", Size: 3, Content: strings.NewReader("one")})
	assert.NoError(t, err)
	_, err = env.ingest.Ingest(owner, Upload{Name: "a.txt", Size: 3, Content: strings.NewReader("two")})
	assert.NoError(t, err)

	versions, err := env.versions.FindByNode(node.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 1)
	versionRef := versions[0].ContentRef

	assert.NoError(t, env.nodeSvc.Delete(owner, node.ID))

	nodes, err := env.nodes.List(owner, repository.NodeFilter{})
	assert.NoError(t, err)
	assert.Len(t, nodes, 0)

	versions, err = env.versions.FindByNode(node.ID)
	assert.NoError(t, err)
	assert.Len(t, versions, 0)

	_, err = env.blobs.Open(versionRef)
	assert.Error(t, err)

	assert.ErrorIs(t, env.nodeSvc.Delete(owner, node.ID), apperr.ErrNotFound)
}

func TestNodeService_DeleteFolderCascades(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	folder, err := env.nodeSvc.CreateFolder(owner, "docs", nil)
	assert.NoError(t, err)
	child, err := env.ingest.Ingest(owner, Upload{Name: "inside.txt", Size: 2, ParentID: &folder.ID, Content: strings.NewReader("hi")})
	assert.NoError(t, err)
	childRef := child.ContentRef

	assert.NoError(t, env.nodeSvc.Delete(owner, folder.ID))

	nodes, err := env.nodes.List(owner, repository.NodeFilter{Folder: folder.ID.String()})
	assert.NoError(t, err)
	assert.Len(t, nodes, 0)

	_, err = env.blobs.Open(childRef)
	assert.Error(t, err)
}

func TestNodeService_DownloadVariants(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	photo := makePNG(t, 500, 500, false)
	node, err := env.ingest.Ingest(owner, Upload{Name: "p.png", Size: int64(len(photo)), Content: bytes.NewReader(photo)})
	assert.NoError(t, err)

	download, err := env.nodeSvc.OpenDownload(owner, node.ID, "")
	assert.NoError(t, err)
	content, _ := io.ReadAll(download.Content)
	download.Content.Close()
	assert.Equal(t, photo, content)
	assert.Equal(t, "p.png", download.Filename)

	download, err = env.nodeSvc.OpenDownload(owner, node.ID, "thumbnail")
	assert.NoError(t, err)
	download.Content.Close()
	assert.Equal(t, "thumb_p.png", download.Filename)
	assert.Equal(t, "image/jpeg", download.MimeType)

	// No thumbnail falls back to the original.
	plain, err := env.ingest.Ingest(owner, Upload{Name: "n.txt", Size: 2, Content: strings.NewReader("hi")})
	assert.NoError(t, err)
	download, err = env.nodeSvc.OpenDownload(owner, plain.ID, "thumbnail")
	assert.NoError(t, err)
	download.Content.Close()
	assert.Equal(t, "n.txt", download.Filename)

	_, err = env.nodeSvc.OpenDownload(uuid.New(), node.ID, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	folder, err := env.nodeSvc.CreateFolder(owner, "docs", nil)
	assert.NoError(t, err)
	_, err = env.nodeSvc.OpenDownload(owner, folder.ID, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNodeService_Stats(t *testing.T) {
	env := newTestEnv(t, 1)
	owner := uuid.New()

	_, err := env.ingest.Ingest(owner, Upload{Name: "doc.pdf", Size: 100, Category: "DOCUMENT", Content: strings.NewReader("x")})
	assert.NoError(t, err)
	_, err = env.ingest.Ingest(owner, Upload{Name: "bill.pdf", Size: 50, Category: "FINANCE", Content: strings.NewReader("x")})
	assert.NoError(t, err)

	stats, err := env.nodeSvc.Stats(owner)
	assert.NoError(t, err)
	assert.Equal(t, int64(150), stats.TotalStorage)
	assert.Equal(t, int64(2), stats.TotalFiles)
	assert.Len(t, stats.RecentUploads, 2)
	assert.Len(t, stats.UsageByCategory, 2)
}

func TestNodeService_StorageStats(t *testing.T) {
	env := newTestEnv(t, 2)
	owner := uuid.New()

	assert.NoError(t, env.nodes.Create(&models.FileNode{OwnerID: owner, Name: "big", Size: 1 << 30}))

	stats, err := env.nodeSvc.StorageStats(owner)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Quota.TotalGB)
	assert.Equal(t, int64(1<<30), stats.Quota.UsedBytes)
	assert.Equal(t, int64(1<<30), stats.Quota.RemainingBytes)
	assert.Equal(t, 50.0, stats.Quota.UsedPercent)
	assert.Greater(t, stats.Disk.TotalBytes, uint64(0))
}
