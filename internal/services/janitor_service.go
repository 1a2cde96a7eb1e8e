package services

import (
	"Cloudnest/internal/config"
	"Cloudnest/internal/models"
	"Cloudnest/internal/repository"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Janitor runs on a cron schedule: it hard-purges soft-deleted node rows
// (their blobs were released at delete time) and reaps chunk storage of
// upload sessions abandoned past the configured TTL.
type Janitor struct {
	nodeRepository   repository.NodeRepository
	uploadRepository repository.UploadRepository
	blobService      BlobService
	configuration    *config.Configuration
	logService       LogService
	cleaning         bool
	mutex            sync.Mutex
	cron             *cron.Cron
}

func NewJanitorService(
	nodeRepository repository.NodeRepository,
	uploadRepository repository.UploadRepository,
	blobService BlobService,
	logService LogService,
	configuration *config.Configuration,
) *Janitor {
	return &Janitor{
		nodeRepository:   nodeRepository,
		uploadRepository: uploadRepository,
		blobService:      blobService,
		logService:       logService,
		cleaning:         false,
		mutex:            sync.Mutex{},
		configuration:    configuration,
		cron:             cron.New(),
	}
}

func (j *Janitor) ForceStartCleanCycle() error {
	j.mutex.Lock()
	if j.cleaning {
		j.mutex.Unlock()
		return errors.New("cleaning is in progress")
	}
	j.cleaning = true
	j.mutex.Unlock()

	go func() {
		defer func() {
			j.mutex.Lock()
			j.cleaning = false
			j.mutex.Unlock()
		}()
		j.startClean(true)
	}()

	return nil
}

func (j *Janitor) StartCleanCycle() {
	j.logService.Log.Debug("starting cleaning job")

	cronSchedule := j.configuration.Server.CleanConfig.Schedule
	_, err := j.cron.AddFunc(cronSchedule, func() {
		j.mutex.Lock()
		if j.cleaning {
			j.mutex.Unlock()
			return
		}
		j.cleaning = true
		j.mutex.Unlock()

		defer func() {
			j.mutex.Lock()
			j.cleaning = false
			j.mutex.Unlock()
		}()
		j.startClean(false)
	})

	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":   "clean",
			"error": err.Error(),
		}).Error("Failed to start cleaning job")
	}
	j.cron.Start()
}

func (j *Janitor) StopClean() {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	j.cron.Stop()
	j.logService.Log.WithFields(logrus.Fields{
		"job":    "clean",
		"status": "stopped",
	}).Info("Janitor clean stopped")
}

func (j *Janitor) IsCleaning() bool {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	return j.cleaning
}

func (j *Janitor) startClean(forced bool) {
	j.purgeDeletedNodes(forced)
	j.reapStaleUploads()
}

func (j *Janitor) purgeDeletedNodes(forced bool) {
	nodes, err := j.nodeRepository.FindDeleted()
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "error",
			"error":  err.Error(),
		}).Error("Failed to find deleted nodes")
		return
	}
	if len(nodes) > 0 {
		var logFields logrus.Fields
		if !forced {
			logFields = logrus.Fields{
				"job":    "clean",
				"status": "start",
				"cron":   j.configuration.Server.CleanConfig.Schedule,
			}
		} else {
			logFields = logrus.Fields{
				"job":    "clean",
				"status": "forced",
			}
		}
		j.logService.Log.WithFields(logFields).Info(fmt.Sprintf("Found %d nodes to purge", len(nodes)))
	}

	var purged int
	for i := range nodes {
		// Blobs are released at delete time; retry anything left behind.
		for _, ref := range []string{nodes[i].ContentRef, nodes[i].ThumbnailRef} {
			if ref == "" {
				continue
			}
			if err := j.blobService.Delete(ref); err != nil {
				j.logService.Log.WithFields(logrus.Fields{
					"job":   "clean",
					"node":  nodes[i].ID,
					"error": err.Error(),
				}).Warn("Failed to remove leftover content")
			}
		}
		if err := j.nodeRepository.HardDelete(nodes[i].ID); err != nil {
			j.logService.Log.WithFields(logrus.Fields{
				"job":    "clean",
				"status": "error",
				"node":   nodes[i].ID,
				"error":  err.Error(),
			}).Error("Failed to purge node")
			continue
		}
		purged++
	}
	if purged > 0 {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "success",
		}).Info(fmt.Sprintf("Purged %d nodes", purged))
	}
}

func (j *Janitor) reapStaleUploads() {
	ttl := time.Duration(j.configuration.Server.CleanConfig.UploadTTLHours) * time.Hour
	sessions, err := j.uploadRepository.FindStale(time.Now().Add(-ttl))
	if err != nil {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "error",
			"error":  err.Error(),
		}).Error("Failed to find stale upload sessions")
		return
	}

	for i := range sessions {
		if err := os.RemoveAll(j.blobService.ChunkDir(sessions[i].ID)); err != nil {
			j.logService.Log.WithFields(logrus.Fields{
				"job":     "clean",
				"session": sessions[i].ID,
				"error":   err.Error(),
			}).Warn("Failed to remove chunk storage")
			continue
		}
		sessions[i].Status = models.UploadStatusFailed
		if err := j.uploadRepository.Update(&sessions[i]); err != nil {
			j.logService.Log.WithFields(logrus.Fields{
				"job":     "clean",
				"session": sessions[i].ID,
				"error":   err.Error(),
			}).Error("Failed to mark session failed")
		}
	}
	if len(sessions) > 0 {
		j.logService.Log.WithFields(logrus.Fields{
			"job":    "clean",
			"status": "success",
		}).Info(fmt.Sprintf("Reaped %d stale upload sessions", len(sessions)))
	}
}
