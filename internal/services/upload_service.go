package services

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UploadService owns chunked upload sessions: a temp chunk area on disk keyed
// by session id, filled index by index, assembled on completion and fed to
// the same ingest pipeline as single-shot uploads.
type UploadService interface {
	Init(ownerID uuid.UUID, filename string, fileSize int64, mimeType string) (*models.UploadSession, error)
	PutChunk(ownerID, sessionID uuid.UUID, chunkIndex int, chunk io.Reader) error
	Complete(ownerID, sessionID uuid.UUID, parentID *uuid.UUID, metadata string) (*models.FileNode, error)
}

type UploadServiceImpl struct {
	uploadRepository repository.UploadRepository
	blobService      BlobService
	ingestService    IngestService
	logService       LogService
}

func NewUploadService(
	uploadRepository repository.UploadRepository,
	blobService BlobService,
	ingestService IngestService,
	logService LogService,
) UploadService {
	return &UploadServiceImpl{
		uploadRepository: uploadRepository,
		blobService:      blobService,
		ingestService:    ingestService,
		logService:       logService,
	}
}

func (s *UploadServiceImpl) Init(ownerID uuid.UUID, filename string, fileSize int64, mimeType string) (*models.UploadSession, error) {
	if filename == "" || fileSize <= 0 {
		return nil, apperr.Invalidf("filename and file_size are required")
	}

	session := &models.UploadSession{
		OwnerID:  ownerID,
		Filename: filename,
		FileSize: fileSize,
		MimeType: mimeType,
		Status:   models.UploadStatusInit,
	}
	if err := s.uploadRepository.Create(session); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.blobService.ChunkDir(session.ID), os.ModePerm); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *UploadServiceImpl) PutChunk(ownerID, sessionID uuid.UUID, chunkIndex int, chunk io.Reader) error {
	session, err := s.uploadRepository.FindOwned(sessionID, ownerID)
	if err != nil {
		return err
	}
	if session == nil {
		return apperr.NotFoundf("upload session %s", sessionID)
	}
	if session.Status != models.UploadStatusInit && session.Status != models.UploadStatusProcessing {
		return apperr.Invalidf("upload session already %s", session.Status)
	}

	chunkDir := s.blobService.ChunkDir(sessionID)
	if err := os.MkdirAll(chunkDir, os.ModePerm); err != nil {
		return err
	}
	// Rewriting the same index is a safe retry; the last write wins.
	dst, err := os.Create(filepath.Join(chunkDir, strconv.Itoa(chunkIndex)))
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, chunk); err != nil {
		return err
	}

	if session.Status == models.UploadStatusInit {
		session.Status = models.UploadStatusProcessing
		if err := s.uploadRepository.Update(session); err != nil {
			return err
		}
	}
	return nil
}

func (s *UploadServiceImpl) Complete(ownerID, sessionID uuid.UUID, parentID *uuid.UUID, metadata string) (*models.FileNode, error) {
	session, err := s.uploadRepository.FindOwned(sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperr.NotFoundf("upload session %s", sessionID)
	}

	chunkDir := s.blobService.ChunkDir(sessionID)
	entries, err := os.ReadDir(chunkDir)
	if err != nil {
		return nil, apperr.Invalidf("upload session not found or expired")
	}

	// Indices are assembled in numeric order; gaps are tolerated, a missing
	// index is simply skipped.
	var indices []int
	for _, entry := range entries {
		index, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		indices = append(indices, index)
	}
	if len(indices) == 0 {
		return nil, apperr.Invalidf("no chunks found")
	}
	sort.Ints(indices)

	var assembled bytes.Buffer
	for _, index := range indices {
		chunk, err := os.ReadFile(filepath.Join(chunkDir, strconv.Itoa(index)))
		if err != nil {
			return nil, err
		}
		assembled.Write(chunk)
	}

	node, err := s.ingestService.Ingest(ownerID, Upload{
		Name:     session.Filename,
		Size:     session.FileSize,
		MimeType: session.MimeType,
		Metadata: ParseMetadata(metadata),
		ParentID: parentID,
		Content:  &assembled,
	})
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(chunkDir); err != nil {
		s.logService.Log.WithFields(logrus.Fields{
			"session": sessionID,
			"error":   err.Error(),
		}).Warn("could not remove chunk storage")
	}

	session.Status = models.UploadStatusCompleted
	session.CompletedFileID = &node.ID
	if err := s.uploadRepository.Update(session); err != nil {
		return nil, err
	}
	return node, nil
}
