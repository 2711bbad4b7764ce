package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	svc := NewTokenServiceWithSecret("test-secret")

	token, err := svc.IssueSessionToken("+23276123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	v := svc.Verify(token)
	assert.True(t, v.Valid)
	assert.False(t, v.Expired)
	assert.Equal(t, "+23276123456", v.Mobile)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewTokenServiceWithSecret("test-secret")

	token, err := svc.issue("+23276123456", -time.Minute)
	require.NoError(t, err)

	v := svc.Verify(token)
	assert.False(t, v.Valid)
	assert.True(t, v.Expired)
	assert.Equal(t, "+23276123456", v.Mobile)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenServiceWithSecret("secret-a").IssueSessionToken("+23276123456")
	require.NoError(t, err)

	v := NewTokenServiceWithSecret("secret-b").Verify(token)
	assert.False(t, v.Valid)
	assert.False(t, v.Expired)
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewTokenServiceWithSecret("test-secret")

	assert.False(t, svc.Verify("").Valid)
	assert.False(t, svc.Verify("not-a-token").Valid)
	assert.False(t, svc.Verify("a.b.c").Valid)
}

func TestTokenTTLs(t *testing.T) {
	assert.Equal(t, 5*time.Minute, SessionTTL)
	assert.Equal(t, 72*time.Hour, AuthTTL)
}
