package service

import (
	"time"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/logger"

	"github.com/goccy/go-json"
)

// Audit event types recorded by this server.
const (
	AuditAdminBootstrapped = "ADMIN_BOOTSTRAPPED"
	AuditEventCreated      = "EVENT_CREATED"
)

// EventLogService appends and queries the registry's append-only audit log.
type EventLogService struct{}

// Append writes one audit row. eventCode may be nil for installation-wide
// entries; payload is marshaled to JSON and stored as text.
func (s *EventLogService) Append(logType string, eventCode *string, info string, payload map[string]any) error {
	payloadJSON := "{}"
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Warning("marshal audit payload failed:", err)
		} else {
			payloadJSON = string(data)
		}
	}

	entry := &model.EventLog{
		Timestamp: time.Now(),
		Type:      logType,
		EventCode: eventCode,
		Info:      info,
		Payload:   payloadJSON,
	}
	return database.GetDB().Create(entry).Error
}

// Recent returns up to limit audit rows, newest first, optionally filtered
// by event code.
func (s *EventLogService) Recent(limit int, eventCode string) ([]model.EventLog, error) {
	query := database.GetDB().Model(&model.EventLog{})
	if eventCode != "" {
		query = query.Where("event_code = ?", eventCode)
	}

	var entries []model.EventLog
	err := query.Order("timestamp DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
