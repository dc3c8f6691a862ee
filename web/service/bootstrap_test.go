package service

import (
	"testing"

	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIdentity wraps the local provider and records account creations.
type countingIdentity struct {
	LocalIdentityService
	createCalls int
	reportZero  bool
}

func (p *countingIdentity) CreateAccount(email, name, password string) (int64, error) {
	p.createCalls++
	id, err := p.LocalIdentityService.CreateAccount(email, name, password)
	if err != nil {
		return 0, err
	}
	if p.reportZero {
		return 0, nil
	}
	return id, nil
}

func newSetupService(identity IdentityProvider, token string) *SetupService {
	return &SetupService{Identity: identity, SetupToken: token}
}

func TestBootstrapAdminTokenChecks(t *testing.T) {
	setupTestDB(t)
	identity := &countingIdentity{}

	validReq := &BootstrapRequest{Username: "admin", Password: "supersecret"}

	s := newSetupService(identity, "")
	_, failure := s.BootstrapAdmin("anything", validReq)
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnavailable, failure.Kind)

	s = newSetupService(identity, "right-token")
	_, failure = s.BootstrapAdmin("wrong-token", validReq)
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)

	// Token checks win even over an invalid payload.
	_, failure = s.BootstrapAdmin("wrong-token", &BootstrapRequest{Username: "x", Password: "y"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureUnauthorized, failure.Kind)

	assert.Equal(t, 0, identity.createCalls)
}

func TestBootstrapAdminValidation(t *testing.T) {
	setupTestDB(t)
	identity := &countingIdentity{}
	s := newSetupService(identity, "token")

	cases := []struct {
		name string
		req  *BootstrapRequest
	}{
		{"short username", &BootstrapRequest{Username: "ab", Password: "supersecret"}},
		{"username with space", &BootstrapRequest{Username: "ad min", Password: "supersecret"}},
		{"username with slash", &BootstrapRequest{Username: "ad/min", Password: "supersecret"}},
		{"short password", &BootstrapRequest{Username: "admin", Password: "short"}},
		{"nil payload", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, failure := s.BootstrapAdmin("token", tc.req)
			require.NotNil(t, failure)
			assert.Equal(t, FailureInvalid, failure.Kind)
		})
	}

	// Invalid payloads never reach the identity capability.
	assert.Equal(t, 0, identity.createCalls)
}

func TestBootstrapAdminSuccess(t *testing.T) {
	setupTestDB(t)
	identity := &countingIdentity{}
	s := newSetupService(identity, "token")

	username, failure := s.BootstrapAdmin("token", &BootstrapRequest{
		Username: "head.ref_1",
		Password: "supersecret",
	})
	require.Nil(t, failure)
	assert.Equal(t, "head.ref_1", username)

	db := database.GetDB()

	user := &model.User{}
	require.NoError(t, db.Where("email = ?", "head.ref_1@local.rms").First(user).Error)
	require.NotNil(t, user.Username)
	assert.Equal(t, "head.ref_1", *user.Username)
	assert.Equal(t, "head.ref_1", user.Name)

	role := &model.UserRole{}
	require.NoError(t, db.Where("user_id = ?", user.Id).First(role).Error)
	assert.Equal(t, model.RoleAdmin, role.Role)
	assert.Nil(t, role.EventCode)

	var audits int64
	require.NoError(t, db.Model(&model.EventLog{}).Where("type = ?", AuditAdminBootstrapped).Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestBootstrapAdminOnlyOnce(t *testing.T) {
	setupTestDB(t)
	identity := &countingIdentity{}
	s := newSetupService(identity, "token")

	_, failure := s.BootstrapAdmin("token", &BootstrapRequest{Username: "admin", Password: "supersecret"})
	require.Nil(t, failure)

	// A second valid-token call with a fresh username must conflict.
	_, failure = s.BootstrapAdmin("token", &BootstrapRequest{Username: "other", Password: "supersecret"})
	require.NotNil(t, failure)
	assert.Equal(t, FailureConflict, failure.Kind)
	assert.Equal(t, 1, identity.createCalls)

	required, err := s.RequiresAdminSetup()
	require.NoError(t, err)
	assert.False(t, required)
}

func TestBootstrapAdminResolvesUserByEmail(t *testing.T) {
	setupTestDB(t)
	identity := &countingIdentity{reportZero: true}
	s := newSetupService(identity, "token")

	username, failure := s.BootstrapAdmin("token", &BootstrapRequest{Username: "admin", Password: "supersecret"})
	require.Nil(t, failure)
	assert.Equal(t, "admin", username)

	user := &model.User{}
	require.NoError(t, database.GetDB().Where("email = ?", "admin@local.rms").First(user).Error)
	require.NotNil(t, user.Username)
	assert.Equal(t, "admin", *user.Username)
}

func TestRequiresAdminSetupIgnoresScopedRoles(t *testing.T) {
	setupTestDB(t)
	code := "Q1_2024"
	createSessionWithRole(t, "scoped@local.rms", model.RoleAdmin, &code)

	s := newSetupService(&countingIdentity{}, "token")
	required, err := s.RequiresAdminSetup()
	require.NoError(t, err)
	assert.True(t, required)
}
