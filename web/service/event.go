package service

import (
	"errors"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/eventdb"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/logger"
)

var eventCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const defaultRegion = "UNKNOWN"

// EventRequest is the payload for creating an event. All fields except the
// code are optional and defaulted.
type EventRequest struct {
	EventCode string     `json:"eventCode"`
	Name      string     `json:"name"`
	Type      int        `json:"type"`
	Status    int        `json:"status"`
	Finals    int        `json:"finals"`
	Divisions int        `json:"divisions"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	Region    string     `json:"region"`
}

// EventService provisions isolated per-event databases and their registry
// rows. EventsDir is the directory holding the registry database; event
// files are colocated there.
type EventService struct {
	Auth      *AuthService
	EventsDir string

	auditService EventLogService

	// provision applies the event schema to a freshly created file.
	// Overridable in tests; nil means eventdb.ApplySchema.
	provision func(dbPath string) error

	// appendAudit records the creation audit row. Overridable in tests;
	// nil means auditService.Append.
	appendAudit func(logType string, eventCode *string, info string, payload map[string]any) error
}

// CreateEvent provisions a new event: an empty database file created
// exclusively, the fixed schema applied, then the registry Event and audit
// rows. The file and the registry must agree; there is no cross-store
// transaction, so any failure after file creation deletes the file.
func (s *EventService) CreateEvent(r *http.Request, req *EventRequest) (*model.Event, *Failure) {
	userId := s.Auth.CurrentUser(r)
	if userId == 0 {
		return nil, newFailure(FailureUnauthenticated, "")
	}
	if !s.Auth.IsGlobalAdmin(userId) {
		return nil, newFailure(FailureForbidden, "global admin role required")
	}

	if req == nil || !eventCodeRegex.MatchString(req.EventCode) {
		return nil, newFailure(FailureInvalid, "event code must be non-empty letters, digits, '_' or '-'")
	}
	code := req.EventCode

	db := database.GetDB()

	var count int64
	if err := db.Model(&model.Event{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, newFailure(FailureInternal, "")
	}
	if count > 0 {
		return nil, newFailuref(FailureConflict, "event %q already exists", code)
	}

	event := s.applyDefaults(req)

	dbPath, err := eventdb.Path(s.EventsDir, code)
	if err != nil {
		return nil, newFailure(FailureInternal, "")
	}
	event.DbPath = dbPath

	// Second, independent uniqueness check: never overwrite a file.
	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, newFailuref(FailureConflict, "database file for %q already exists", code)
		}
		logger.Error("create event database failed:", err)
		return nil, newFailure(FailureInternal, "")
	}
	file.Close()

	if err := s.provisionSchema(dbPath); err != nil {
		logger.Errorf("apply schema to %s failed: %v", dbPath, err)
		s.rollbackFile(dbPath)
		return nil, newFailure(FailureInternal, "")
	}

	if err := db.Create(event).Error; err != nil {
		s.rollbackFile(dbPath)
		// A concurrent creator can win the race between the registry check
		// and this insert; the unique index on code reports it here.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, newFailuref(FailureConflict, "event %q already exists", code)
		}
		return nil, newFailure(FailureInternal, "")
	}

	err = s.recordCreation(AuditEventCreated, &event.Code, "event database provisioned", map[string]any{
		"eventCode": code,
		"dbPath":    dbPath,
	})
	if err != nil {
		// The Event row alone does not commit the event; undo both stores.
		if delErr := db.Where("code = ?", code).Delete(&model.Event{}).Error; delErr != nil {
			logger.Warningf("rollback of event row %q failed: %v", code, delErr)
		}
		s.rollbackFile(dbPath)
		return nil, newFailure(FailureInternal, "")
	}

	logger.Infof("event %q provisioned at %s", code, dbPath)
	return event, nil
}

// ListEvents returns all registered events, newest first.
func (s *EventService) ListEvents() ([]model.Event, error) {
	var events []model.Event
	err := database.GetDB().Order("created_at DESC").Find(&events).Error
	return events, err
}

// applyDefaults fills the explicit defaults for missing request fields.
func (s *EventService) applyDefaults(req *EventRequest) *model.Event {
	name := req.Name
	if name == "" {
		name = req.EventCode
	}

	start := time.Now()
	if req.Start != nil {
		start = *req.Start
	}
	end := start
	if req.End != nil {
		end = *req.End
	}

	region := req.Region
	if region == "" {
		region = defaultRegion
	}

	return &model.Event{
		Code:      req.EventCode,
		Name:      name,
		Type:      req.Type,
		Status:    req.Status,
		Finals:    req.Finals,
		Divisions: req.Divisions,
		Start:     start,
		End:       end,
		Region:    region,
	}
}

func (s *EventService) provisionSchema(dbPath string) error {
	if s.provision != nil {
		return s.provision(dbPath)
	}
	return eventdb.ApplySchema(dbPath)
}

func (s *EventService) recordCreation(logType string, eventCode *string, info string, payload map[string]any) error {
	if s.appendAudit != nil {
		return s.appendAudit(logType, eventCode, info, payload)
	}
	return s.auditService.Append(logType, eventCode, info, payload)
}

// rollbackFile deletes a partially provisioned event database. Best effort,
// attempted once; failure is logged and the triggering error still wins.
func (s *EventService) rollbackFile(dbPath string) {
	if err := os.Remove(dbPath); err != nil {
		logger.Warningf("rollback of %s failed, stale file remains: %v", dbPath, err)
	}
}
