package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewUserAuthService(f.cfg, f.userRepo)

	user, token, expiresAt, err := svc.Register(RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ParseUserJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	_, _, _, err = svc.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailExists)
	_, _, _, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, _, _, err = svc.Register(RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	logged, _, _, err := svc.Login("ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotNil(t, logged.LastLoginAt)

	_, _, _, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	f := newFixture(t)
	svc := NewUserAuthService(f.cfg, f.userRepo)

	_, _, _, err := svc.Register(RegisterInput{Username: "dave", Email: "dave@example.com", Password: "123"})
	require.ErrorIs(t, err, ErrWeakPassword)
	var policyErr passwordPolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, "error.password_too_short", policyErr.Key())
	assert.Equal(t, []interface{}{6}, policyErr.Args())
	assert.Zero(t, f.count(t, &models.User{}))
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	f := newFixture(t)
	svc := NewUserAuthService(f.cfg, f.userRepo)
	user, _, _, err := svc.Register(RegisterInput{Username: "erin", Email: "erin@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.userService().UpdateUserStatus(context.Background(), user.ID, constants.UserStatusDisabled)
	require.NoError(t, err)

	_, _, _, err = svc.Login("erin@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUserDisabled)

	state, err := svc.ResolveAuthState(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, constants.UserStatusDisabled, state.Status)
	assert.EqualValues(t, 1, state.TokenVersion)

	state, err = svc.ResolveAuthState(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestParseUserJWTRejectsForeignSecret(t *testing.T) {
	f := newFixture(t)
	svc := NewUserAuthService(f.cfg, f.userRepo)
	admin := NewAuthService(f.cfg, nil)

	token, _, err := admin.GenerateJWT(&models.Admin{ID: 1, Username: "root"})
	require.NoError(t, err)
	_, err = svc.ParseUserJWT(token)
	assert.Error(t, err)
}
