package services

import (
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

const (
	thumbnailMaxSide     = 300
	thumbnailJPEGQuality = 85
)

// ThumbnailProducer turns original image bytes into preview bytes. Kept as an
// interface so generation can move off the request path without changing
// callers.
type ThumbnailProducer interface {
	Produce(r io.Reader) ([]byte, error)
}

type ImagingProducer struct{}

func NewImagingProducer() ThumbnailProducer {
	return &ImagingProducer{}
}

func (p *ImagingProducer) Produce(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	if hasAlpha(img) {
		background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		img = imaging.OverlayCenter(background, img, 1.0)
	}
	thumb := imaging.Fit(img, thumbnailMaxSide, thumbnailMaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64:
		return true
	}
	return false
}

// ThumbnailService derives previews for photo nodes. A node that already has
// a thumbnail is never reprocessed, even if its content changed since.
type ThumbnailService interface {
	EnsureThumbnail(node *models.FileNode) error
}

type ThumbnailServiceImpl struct {
	producer       ThumbnailProducer
	blobService    BlobService
	nodeRepository repository.NodeRepository
}

func NewThumbnailService(
	producer ThumbnailProducer,
	blobService BlobService,
	nodeRepository repository.NodeRepository,
) ThumbnailService {
	return &ThumbnailServiceImpl{
		producer:       producer,
		blobService:    blobService,
		nodeRepository: nodeRepository,
	}
}

func (s *ThumbnailServiceImpl) EnsureThumbnail(node *models.FileNode) error {
	if node.Kind != models.KindPhoto || node.ContentRef == "" {
		return nil
	}
	if node.ThumbnailRef != "" {
		return nil
	}

	src, err := s.blobService.Open(node.ContentRef)
	if err != nil {
		return err
	}
	defer src.Close()

	preview, err := s.producer.Produce(src)
	if err != nil {
		return err
	}

	ref := s.blobService.ThumbnailRef(node.ID)
	if _, _, err := s.blobService.Save(ref, bytes.NewReader(preview)); err != nil {
		return err
	}

	node.ThumbnailRef = ref
	return s.nodeRepository.Update(node)
}
