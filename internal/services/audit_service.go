package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Auditor is the audit collaborator. Record is fire-and-forget: failures are
// swallowed and never fail the operation being audited.
type Auditor interface {
	Record(ownerID uuid.UUID, action, ip, details string)
}

type LogAuditor struct {
	logService LogService
}

func NewAuditor(logService LogService) Auditor {
	return &LogAuditor{logService: logService}
}

func (a *LogAuditor) Record(ownerID uuid.UUID, action, ip, details string) {
	defer func() {
		_ = recover()
	}()
	a.logService.Log.WithFields(logrus.Fields{
		"audit":   true,
		"owner":   ownerID,
		"action":  action,
		"ip":      ip,
		"details": details,
	}).Info("audit entry")
}
