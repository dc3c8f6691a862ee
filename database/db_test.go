package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rms-local/rms-server/database/model"
)

func TestInitDBIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rms-local.db")

	require.NoError(t, InitDB(dbPath))
	require.NoError(t, CloseDB())

	// Reopening an existing registry must not fail or lose the schema.
	require.NoError(t, InitDB(dbPath))
	defer CloseDB()

	for _, table := range []string{"users", "sessions", "user_roles", "events", "event_logs"} {
		var count int64
		err := GetDB().Table(table).Count(&count).Error
		assert.NoError(t, err, "table %s must exist", table)
	}
}

func TestInitDBRejectsNonDatabaseFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rms-local.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("this is not a database"), 0o644))

	err := InitDB(dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a SQLite database")
}

func TestRoleRowsCascadeWithUserAcrossConnections(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rms-local.db")
	require.NoError(t, InitDB(dbPath))
	defer CloseDB()

	user := &model.User{Name: "Admin", Email: "admin@local.rms", PasswordHash: "x"}
	require.NoError(t, GetDB().Create(user).Error)
	require.NoError(t, GetDB().Create(&model.UserRole{UserId: user.Id, Role: model.RoleAdmin}).Error)

	// Foreign keys are set per connection; churn the pool so the delete
	// runs on a connection other than the one that created the rows.
	sqlDB, err := GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetConnMaxLifetime(time.Nanosecond)
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, GetDB().Delete(&model.User{}, user.Id).Error)

	var roles int64
	require.NoError(t, GetDB().Model(&model.UserRole{}).Where("user_id = ?", user.Id).Count(&roles).Error)
	assert.Zero(t, roles, "role rows must cascade with their user")
}

func TestIsSQLiteDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "rms-local.db")
	require.NoError(t, InitDB(dbPath))
	require.NoError(t, CloseDB())

	file, err := os.Open(dbPath)
	require.NoError(t, err)
	defer file.Close()

	ok, err := IsSQLiteDB(file)
	require.NoError(t, err)
	assert.True(t, ok)

	textPath := filepath.Join(t.TempDir(), "not-a-db.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello, definitely not sqlite"), 0o644))
	textFile, err := os.Open(textPath)
	require.NoError(t, err)
	defer textFile.Close()

	ok, err = IsSQLiteDB(textFile)
	require.NoError(t, err)
	assert.False(t, ok)
}
