// Package job defines the cron-scheduled maintenance jobs of the server.
package job

import (
	"github.com/rms-local/rms-server/logger"
	"github.com/rms-local/rms-server/util/common"
	"github.com/rms-local/rms-server/web/service"
)

// SessionCleanupJob deletes expired session rows from the registry.
type SessionCleanupJob struct {
	identityService service.LocalIdentityService
}

func NewSessionCleanupJob() *SessionCleanupJob {
	return new(SessionCleanupJob)
}

func (j *SessionCleanupJob) Run() {
	defer common.Recover("session cleanup job")

	deleted, err := j.identityService.DeleteExpiredSessions()
	if err != nil {
		logger.Warning("session cleanup failed:", err)
		return
	}
	if deleted > 0 {
		logger.Debugf("session cleanup removed %d expired sessions", deleted)
	}
}
