package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("RMS_LOG_FOLDER", os.TempDir())
	logger.InitLogger(logging.DEBUG)
	os.Exit(m.Run())
}

// setupTestDB opens a fresh registry in a temp dir and returns the dir.
func setupTestDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, database.InitDB(filepath.Join(dir, "rms-local.db")))
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
	return dir
}

// createAdminSession inserts a user with a global ADMIN role and an open
// session, returning a request authenticated as that user.
func createAdminSession(t *testing.T) *http.Request {
	t.Helper()
	return createSessionWithRole(t, "admin@local.rms", model.RoleAdmin, nil)
}

func createSessionWithRole(t *testing.T, email string, role model.Role, eventCode *string) *http.Request {
	t.Helper()
	db := database.GetDB()

	user := &model.User{Name: "Test User", Email: email}
	require.NoError(t, db.Create(user).Error)

	if role != "" {
		require.NoError(t, db.Create(&model.UserRole{
			UserId:    user.Id,
			Role:      role,
			EventCode: eventCode,
		}).Error)
	}

	session := &model.Session{
		Token:   "token-" + email,
		UserId:  user.Id,
		Expires: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(session).Error)

	return requestWithToken(session.Token)
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/events", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return r
}
