package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coweringg/LawCaseAI/pkg/cache"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("64f1b2c3d4e5f60718293a4b", "lawyer@firm.com", "lawyer", "basic", testSecret, 168)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", claims.UserID)
	assert.Equal(t, "lawyer@firm.com", claims.Email)
	assert.Equal(t, "lawyer", claims.Role)
	assert.Equal(t, "basic", claims.Plan)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("64f1b2c3d4e5f60718293a4b", "lawyer@firm.com", "lawyer", "basic", testSecret, 168)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("64f1b2c3d4e5f60718293a4b", "lawyer@firm.com", "lawyer", "basic", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testSecret)
	assert.Error(t, err)
}

func TestValidateJWTWithBlacklist_Revoked(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := cache.NewClient("redis://" + mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	blacklist := NewTokenBlacklist(client)
	ctx := context.Background()

	token, err := GenerateJWT("64f1b2c3d4e5f60718293a4b", "lawyer@firm.com", "lawyer", "basic", testSecret, 168)
	require.NoError(t, err)

	// Valid before revocation
	_, err = ValidateJWTWithBlacklist(ctx, token, testSecret, blacklist)
	assert.NoError(t, err)

	require.NoError(t, blacklist.Add(ctx, token, time.Hour))

	// Rejected after revocation
	_, err = ValidateJWTWithBlacklist(ctx, token, testSecret, blacklist)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}
