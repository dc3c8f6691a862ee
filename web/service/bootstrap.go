package service

import (
	"regexp"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/logger"
)

// localEmailDomain is appended to the chosen admin username so the identity
// provider's required-email constraint is satisfied without a real address.
const localEmailDomain = "@local.rms"

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{3,}$`)

// BootstrapRequest is the payload of the one-time admin setup call.
type BootstrapRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupService performs the one-time, token-gated creation of the sole
// global administrator account.
type SetupService struct {
	Identity   IdentityProvider
	SetupToken string

	authService  AuthService
	auditService EventLogService
}

// RequiresAdminSetup reports whether the installation still needs its admin
// bootstrapped.
func (s *SetupService) RequiresAdminSetup() (bool, error) {
	exists, err := s.authService.HasGlobalAdmin()
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// BootstrapAdmin creates the global administrator. Checks run in order and
// the first failing one wins. On success only the username is returned.
func (s *SetupService) BootstrapAdmin(token string, req *BootstrapRequest) (string, *Failure) {
	if s.SetupToken == "" {
		return "", newFailure(FailureUnavailable, "setup token is not configured")
	}
	if token != s.SetupToken {
		return "", newFailure(FailureUnauthorized, "invalid setup token")
	}

	exists, err := s.authService.HasGlobalAdmin()
	if err != nil {
		return "", newFailure(FailureInternal, "")
	}
	if exists {
		return "", newFailure(FailureConflict, "admin is already initialized")
	}

	if req == nil || !usernameRegex.MatchString(req.Username) {
		return "", newFailure(FailureInvalid, "username must be at least 3 characters of letters, digits, '.', '_' or '-'")
	}
	if len(req.Password) < 8 {
		return "", newFailure(FailureInvalid, "password must be at least 8 characters")
	}
	name := req.Name
	if name == "" {
		name = req.Username
	}

	email := req.Username + localEmailDomain
	userId, err := s.Identity.CreateAccount(email, name, req.Password)
	if err != nil {
		return "", newFailure(FailureInternal, "account creation failed")
	}

	db := database.GetDB()

	// Some providers do not report the new id; fall back to the synthesized
	// email, which is unique by construction.
	if userId == 0 {
		user := &model.User{}
		if err := db.Where("email = ?", email).First(user).Error; err != nil {
			return "", newFailure(FailureInternal, "created account could not be resolved")
		}
		userId = user.Id
	}

	if err := db.Model(&model.User{}).
		Where("id = ?", userId).
		Update("username", req.Username).
		Error; err != nil {
		s.compensate(userId)
		return "", newFailure(FailureInternal, "")
	}

	role := &model.UserRole{
		UserId:    userId,
		Role:      model.RoleAdmin,
		EventCode: nil,
	}
	if err := db.Create(role).Error; err != nil {
		s.compensate(userId)
		return "", newFailure(FailureInternal, "")
	}

	err = s.auditService.Append(AuditAdminBootstrapped, nil, "global admin created", map[string]any{
		"userId":   userId,
		"username": req.Username,
	})
	if err != nil {
		s.compensate(userId)
		return "", newFailure(FailureInternal, "")
	}

	logger.Infof("global admin %q bootstrapped", req.Username)
	return req.Username, nil
}

// compensate deletes the partially created user. Best effort, attempted
// once: its own failure is logged and never changes the reported outcome.
// Role rows cascade with the user.
func (s *SetupService) compensate(userId int64) {
	err := database.GetDB().
		Where("id = ?", userId).
		Delete(&model.User{}).
		Error
	if err != nil {
		logger.Warningf("bootstrap compensation failed, orphan user %d remains: %v", userId, err)
	}
}
