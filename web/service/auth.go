package service

import (
	"net/http"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/logger"
)

// AuthService resolves caller identity and role from a request. It never
// fails outward: identity-provider errors degrade to anonymous.
type AuthService struct {
	Identity IdentityProvider
}

// CurrentUser returns the id of the request's session user, or 0 for an
// anonymous or unidentifiable caller.
func (s *AuthService) CurrentUser(r *http.Request) int64 {
	userId, err := s.Identity.CurrentSessionUser(r)
	if err != nil {
		logger.Warning("resolve session user failed:", err)
		return 0
	}
	return userId
}

// IsGlobalAdmin reports whether the user holds an ADMIN role with no event
// scope. Event-scoped ADMIN rows do not count.
func (s *AuthService) IsGlobalAdmin(userId int64) bool {
	if userId == 0 {
		return false
	}
	var count int64
	err := database.GetDB().
		Model(&model.UserRole{}).
		Where("user_id = ? AND role = ? AND event_code IS NULL", userId, model.RoleAdmin).
		Count(&count).
		Error
	if err != nil {
		logger.Warning("check global admin role failed:", err)
		return false
	}
	return count > 0
}

// HasGlobalAdmin reports whether any global ADMIN role exists at all, which
// is what gates the one-time setup flow.
func (s *AuthService) HasGlobalAdmin() (bool, error) {
	var count int64
	err := database.GetDB().
		Model(&model.UserRole{}).
		Where("role = ? AND event_code IS NULL", model.RoleAdmin).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
