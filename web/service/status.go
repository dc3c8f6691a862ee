package service

import (
	"time"

	"github.com/rms-local/rms-server/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is the health endpoint payload: the runtime coordinates the desktop
// launcher needs plus basic host figures.
type Status struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"startedAt"`
	Uptime    uint64    `json:"uptime"`
	Cpu       float64   `json:"cpu"`
	Mem       struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
}

// StatusService reports server health and host statistics.
type StatusService struct {
	Host      string
	Port      int
	DBPath    string
	StartedAt time.Time
}

// GetStatus collects the current health snapshot. Host statistic failures
// are logged and leave zero values; they never fail the endpoint.
func (s *StatusService) GetStatus() *Status {
	status := &Status{
		Status:    "ok",
		Database:  s.DBPath,
		Host:      s.Host,
		Port:      s.Port,
		StartedAt: s.StartedAt,
	}

	if uptime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = uptime
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	return status
}
