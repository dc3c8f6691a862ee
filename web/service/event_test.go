package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/eventdb"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newEventService(t *testing.T, dir string) *EventService {
	t.Helper()
	return &EventService{
		Auth:      &AuthService{Identity: &LocalIdentityService{}},
		EventsDir: dir,
	}
}

func eventTables(t *testing.T, dbPath string) []string {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	rows, err := sqlDB.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	)
	require.NoError(t, err)
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables = append(tables, name)
	}
	require.NoError(t, rows.Err())
	return tables
}

func TestCreateEventProvisionsDatabase(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)

	event, failure := s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.Nil(t, failure)
	assert.Equal(t, "Q1_2024", event.Code)
	assert.Equal(t, "Q1_2024", event.Name)
	assert.Equal(t, "UNKNOWN", event.Region)
	assert.Equal(t, event.Start, event.End)
	assert.True(t, filepath.IsAbs(event.DbPath))
	assert.Equal(t, eventdb.FileName("Q1_2024"), filepath.Base(event.DbPath))

	info, err := os.Stat(event.DbPath)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	tables := eventTables(t, event.DbPath)
	for _, want := range []string{"teams", "match_schedule", "match_results", "scores", "rankings", "awards"} {
		assert.Contains(t, tables, want)
	}

	var audits int64
	require.NoError(t, database.GetDB().
		Model(&model.EventLog{}).
		Where("type = ? AND event_code = ?", AuditEventCreated, "Q1_2024").
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestCreateEventTwiceConflicts(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)

	event, failure := s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.Nil(t, failure)
	before, err := os.ReadFile(event.DbPath)
	require.NoError(t, err)

	_, failure = s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureConflict, failure.Kind)

	// The first event's file must be untouched.
	after, err := os.ReadFile(event.DbPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateEventFileConflict(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)

	// A stray file at the deterministic path blocks provisioning even
	// without a registry row. The file itself is never overwritten.
	dbPath, err := eventdb.Path(dir, "ORPHAN")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dbPath, []byte("not a database"), 0o644))

	_, failure := s.CreateEvent(r, &EventRequest{EventCode: "ORPHAN"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureConflict, failure.Kind)

	content, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("not a database"), content)
}

func TestCreateEventValidation(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)

	for _, code := range []string{"", "bad code", "../escape", "q1/2024"} {
		_, failure := s.CreateEvent(r, &EventRequest{EventCode: code})
		require.NotNil(t, failure, "code %q", code)
		assert.Equal(t, FailureInvalid, failure.Kind)
	}
}

func TestCreateEventAuthorization(t *testing.T) {
	dir := setupTestDB(t)
	s := newEventService(t, dir)

	_, failure := s.CreateEvent(requestWithToken(""), &EventRequest{EventCode: "Q1_2024"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthenticated, failure.Kind)

	// An event-scoped ADMIN is not a global admin.
	code := "OTHER"
	r := createSessionWithRole(t, "scoped@local.rms", model.RoleAdmin, &code)
	_, failure = s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureForbidden, failure.Kind)
}

func TestCreateEventRollsBackFileOnSchemaFailure(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)
	s.provision = func(dbPath string) error {
		return common.NewError("schema blew up")
	}

	_, failure := s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureInternal, failure.Kind)

	dbPath, err := eventdb.Path(dir, "Q1_2024")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "partial event database must be deleted")

	var events int64
	require.NoError(t, database.GetDB().Model(&model.Event{}).Count(&events).Error)
	assert.EqualValues(t, 0, events)

	// The code is free again once the partial file is gone.
	s.provision = nil
	_, failure = s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	assert.Nil(t, failure)
}

func TestCreateEventRollsBackBothStoresOnAuditFailure(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)
	s.appendAudit = func(string, *string, string, map[string]any) error {
		return common.NewError("audit write failed")
	}

	_, failure := s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureInternal, failure.Kind)

	// The registry row and the file must both be undone.
	var events int64
	require.NoError(t, database.GetDB().Model(&model.Event{}).Count(&events).Error)
	assert.EqualValues(t, 0, events)

	dbPath, err := eventdb.Path(dir, "Q1_2024")
	require.NoError(t, err)
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "event database must be deleted")

	// With the audit store healthy again the code is free to reuse.
	s.appendAudit = nil
	_, failure = s.CreateEvent(r, &EventRequest{EventCode: "Q1_2024"})
	assert.Nil(t, failure)
}

func TestListEvents(t *testing.T) {
	dir := setupTestDB(t)
	r := createAdminSession(t)
	s := newEventService(t, dir)

	_, failure := s.CreateEvent(r, &EventRequest{EventCode: "AAA"})
	require.Nil(t, failure)
	_, failure = s.CreateEvent(r, &EventRequest{EventCode: "BBB"})
	require.Nil(t, failure)

	events, err := s.ListEvents()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
