package services

import (
	"Cloudnest/internal/config"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobService stores file content under the storage root. References are
// relative paths handed back to the metadata layer as opaque handles.
type BlobService interface {
	Save(ref string, r io.Reader) (written int64, sha256sum string, err error)
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) error
	Copy(srcRef, dstRef string) (int64, error)
	ContentRef(ownerID uuid.UUID, name string) string
	VersionRef(nodeID uuid.UUID, versionNumber int, name string) string
	ThumbnailRef(nodeID uuid.UUID) string
	ChunkDir(sessionID uuid.UUID) string
	Root() string
}

type BlobServiceImpl struct {
	root string
}

func NewBlobService(configuration *config.Configuration) BlobService {
	return &BlobServiceImpl{root: configuration.Storage.Path}
}

func (s *BlobServiceImpl) Root() string {
	return s.root
}

func (s *BlobServiceImpl) path(ref string) string {
	return filepath.Join(s.root, filepath.FromSlash(ref))
}

func (s *BlobServiceImpl) Save(ref string, r io.Reader) (int64, string, error) {
	destination := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(destination), os.ModePerm); err != nil {
		return 0, "", err
	}
	dst, err := os.Create(destination)
	if err != nil {
		return 0, "", err
	}
	defer dst.Close()

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(dst, hasher), r)
	if err != nil {
		return 0, "", err
	}
	return written, hex.EncodeToString(hasher.Sum(nil)), nil
}

func (s *BlobServiceImpl) Open(ref string) (io.ReadCloser, error) {
	return os.Open(s.path(ref))
}

func (s *BlobServiceImpl) Delete(ref string) error {
	err := os.Remove(s.path(ref))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *BlobServiceImpl) Copy(srcRef, dstRef string) (int64, error) {
	src, err := s.Open(srcRef)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	written, _, err := s.Save(dstRef, src)
	return written, err
}

func (s *BlobServiceImpl) ContentRef(ownerID uuid.UUID, name string) string {
	return fmt.Sprintf("users/%s/%s_%s", ownerID, uuid.NewString(), sanitizeName(name))
}

func (s *BlobServiceImpl) VersionRef(nodeID uuid.UUID, versionNumber int, name string) string {
	return fmt.Sprintf("versions/%s/v%d_%s", nodeID, versionNumber, sanitizeName(name))
}

func (s *BlobServiceImpl) ThumbnailRef(nodeID uuid.UUID) string {
	return fmt.Sprintf("thumbnails/%s_thumb.jpg", nodeID)
}

func (s *BlobServiceImpl) ChunkDir(sessionID uuid.UUID) string {
	return filepath.Join(s.root, "chunk_uploads", sessionID.String())
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, string(os.PathSeparator), "_")
}
