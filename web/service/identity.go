package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/util/common"
	"github.com/rms-local/rms-server/util/crypto"

	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the session token. A bearer token in
// the Authorization header is accepted as an alternative.
const SessionCookie = "rms_session"

const sessionTTL = 12 * time.Hour

// IdentityProvider is the account and session capability the rest of the
// server depends on. Any concrete provider is substitutable; the server
// ships with a registry-backed one.
type IdentityProvider interface {
	// CreateAccount creates a user account and returns its id. A provider
	// may return 0 with a nil error when it cannot report the id, in which
	// case callers resolve the user by email lookup.
	CreateAccount(email, name, password string) (int64, error)
	// CurrentSessionUser resolves the user id of the request's session, or
	// 0 when the request carries no valid session.
	CurrentSessionUser(r *http.Request) (int64, error)
}

// LocalIdentityService is the registry-backed identity provider. It owns the
// users table's credential column and all session rows.
type LocalIdentityService struct{}

func (s *LocalIdentityService) CreateAccount(email, name, password string) (int64, error) {
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Verified:     false,
		PasswordHash: hash,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		return 0, err
	}
	return user.Id, nil
}

func (s *LocalIdentityService) CurrentSessionUser(r *http.Request) (int64, error) {
	token := SessionToken(r)
	if token == "" {
		return 0, nil
	}

	session := &model.Session{}
	err := database.GetDB().
		Where("token = ?", token).
		First(session).
		Error
	if database.IsNotFound(err) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	if time.Now().After(session.Expires) {
		return 0, nil
	}
	return session.UserId, nil
}

// Login verifies credentials against the registry and opens a new session.
// The login may be either the account email or the attached username.
func (s *LocalIdentityService) Login(login, password string) (*model.Session, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.
		Where("email = ? OR username = ?", login, login).
		First(user).
		Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, common.NewErrorf("unknown user %q", login)
		}
		return nil, err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		return nil, common.NewError("wrong password")
	}

	session := &model.Session{
		Token:   uuid.NewString(),
		UserId:  user.Id,
		Expires: time.Now().Add(sessionTTL),
	}
	if err := db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Logout deletes the request's session row, if any.
func (s *LocalIdentityService) Logout(r *http.Request) error {
	token := SessionToken(r)
	if token == "" {
		return nil
	}
	return database.GetDB().
		Where("token = ?", token).
		Delete(&model.Session{}).
		Error
}

// DeleteExpiredSessions removes sessions past their expiry and returns how
// many rows were deleted.
func (s *LocalIdentityService) DeleteExpiredSessions() (int64, error) {
	result := database.GetDB().
		Where("expires < ?", time.Now()).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}

// SessionToken extracts the session token from the request cookie or from a
// bearer Authorization header.
func SessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
