package services

import (
	"Cloudnest/internal/apperr"
	"Cloudnest/internal/config"
	"Cloudnest/internal/repository"
	"fmt"

	"github.com/google/uuid"
)

// QuotaService enforces the per-owner byte ceiling. The check and the later
// size commit are not one transaction; concurrent uploads from the same owner
// can jointly overshoot. Soft limit.
type QuotaService interface {
	Check(ownerID uuid.UUID, additional int64) error
	Usage(ownerID uuid.UUID) (int64, error)
	QuotaGB() int
	QuotaBytes() int64
}

type QuotaServiceImpl struct {
	nodeRepository repository.NodeRepository
	quotaGB        int
}

func NewQuotaService(nodeRepository repository.NodeRepository, configuration *config.Configuration) QuotaService {
	return &QuotaServiceImpl{
		nodeRepository: nodeRepository,
		quotaGB:        configuration.Quota.DefaultGB,
	}
}

func (s *QuotaServiceImpl) Check(ownerID uuid.UUID, additional int64) error {
	usage, err := s.nodeRepository.SumSizes(ownerID)
	if err != nil {
		return err
	}
	if usage+additional > s.QuotaBytes() {
		return fmt.Errorf("%w: %d GB limit", apperr.ErrQuotaExceeded, s.quotaGB)
	}
	return nil
}

func (s *QuotaServiceImpl) Usage(ownerID uuid.UUID) (int64, error) {
	return s.nodeRepository.SumSizes(ownerID)
}

func (s *QuotaServiceImpl) QuotaGB() int {
	return s.quotaGB
}

func (s *QuotaServiceImpl) QuotaBytes() int64 {
	return int64(s.quotaGB) * 1024 * 1024 * 1024
}
