package job

import (
	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/logger"
	"github.com/rms-local/rms-server/util/common"
)

// CheckpointJob flushes the registry WAL so the database file on disk stays
// current for the desktop launcher's backup tooling.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if err := database.Checkpoint(); err != nil {
		logger.Warning("registry checkpoint failed:", err)
	}
}
