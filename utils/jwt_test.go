package utils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einadid/microtask-server/models"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_AUD", "microtask")
	t.Setenv("JWT_ISS", "microtask-api")
	useTestDB(t)

	user := models.User{ID: 7, Email: "w@example.com", Role: models.RoleWorker}
	tok, exp, err := GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	claims, err := ValidateAccessToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "w@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessToken_AdminShorterTTL(t *testing.T) {
	assert.Equal(t, 6*time.Hour, TokenTTL(models.RoleAdmin))
	t.Setenv("JWT_TTL", "2h")
	assert.Equal(t, 2*time.Hour, TokenTTL(models.RoleBuyer))
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	useTestDB(t)
	user := models.User{ID: 1, Email: "a@example.com", Role: models.RoleBuyer}
	ctx := context.Background()

	tok, _, err := GenerateAccessToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ValidateAccessToken(ctx, tok)
	assert.Error(t, err)
	t.Setenv("JWT_SECRET", "test-secret")

	t.Setenv("JWT_AUD", "someone-else")
	_, err = ValidateAccessToken(ctx, tok)
	assert.Error(t, err)
	t.Setenv("JWT_AUD", "")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "old",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ValidateAccessToken(ctx, s)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           1,
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	s, err = none.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ValidateAccessToken(ctx, s)
	assert.Error(t, err)
}

func TestRevokeJTI_DatabaseFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := useTestDB(t)
	ctx := context.Background()
	RedisClient = nil

	tok, exp, err := GenerateAccessToken(models.User{ID: 3, Email: "b@example.com", Role: models.RoleBuyer})
	require.NoError(t, err)
	claims, err := ValidateAccessToken(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, RevokeJTI(ctx, claims.ID, exp))
	require.NoError(t, RevokeJTI(ctx, claims.ID, exp))
	assert.True(t, IsRevoked(ctx, claims.ID))
	_, err = ValidateAccessToken(ctx, tok)
	assert.EqualError(t, err, "token revoked")

	require.NoError(t, db.Create(&models.RevokedToken{ID: "stale", ExpiresAt: time.Now().Add(-time.Hour)}).Error)
	n, err := PruneRevoked(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, IsRevoked(ctx, claims.ID))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, ok := BearerToken(r)
	assert.False(t, ok)
	r.Header.Set("Authorization", "Bearer abc.def")
	tok, ok := BearerToken(r)
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)
	r.Header.Set("Authorization", "Basic abc")
	_, ok = BearerToken(r)
	assert.False(t, ok)
}
