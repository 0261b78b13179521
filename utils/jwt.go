package utils

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

// RedisClient backs token revocation when REDIS_ADDR is set. When nil,
// revocations go to the revoked_tokens table.
var RedisClient *redis.Client

const blacklistPrefix = "jwt:blacklist:"

// InitRedis connects to REDIS_ADDR if configured. A failed ping is logged and
// leaves RedisClient nil so revocation falls back to the database.
func InitRedis(ctx context.Context) {
	addr := strings.ReplaceAll(strings.TrimSpace(os.Getenv("REDIS_ADDR")), " ", "")
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS")}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			opts.DB = n
		}
	}
	rc := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis ping failed, using database revocation store", "addr", addr, "error", err)
		_ = rc.Close()
		return
	}
	RedisClient = rc
	logger.Info("redis connected", "addr", addr)
}

type contextKey string

const (
	UserKey      = contextKey("user")
	ClaimsKey    = contextKey("claims")
	RequestIDKey = contextKey("requestID")
)

// Claims carried by access tokens.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return []byte(secret), nil
}

// TokenTTL is 6h for admins and JWT_TTL (default 24h) for everyone else.
func TokenTTL(role string) time.Duration {
	if role == models.RoleAdmin {
		return 6 * time.Hour
	}
	if d, err := time.ParseDuration(os.Getenv("JWT_TTL")); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// GenerateAccessToken issues an HS256 token for user.
func GenerateAccessToken(user models.User) (string, time.Time, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	exp := now.Add(TokenTTL(user.Role))
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			Issuer:    os.Getenv("JWT_ISS"),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if aud := os.Getenv("JWT_AUD"); aud != "" {
		claims.Audience = jwt.ClaimStrings{aud}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateAccessToken verifies signature, registered claims and revocation.
func ValidateAccessToken(ctx context.Context, tokenStr string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if aud := os.Getenv("JWT_AUD"); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}
	if iss := os.Getenv("JWT_ISS"); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, errors.New("invalid token payload")
	}
	if IsRevoked(ctx, claims.ID) {
		return nil, errors.New("token revoked")
	}
	return claims, nil
}

// IsRevoked reports whether jti was revoked. Store outages never fail auth.
func IsRevoked(ctx context.Context, jti string) bool {
	if RedisClient != nil {
		res, err := RedisClient.Get(ctx, blacklistPrefix+jti).Result()
		return err == nil && res == "1"
	}
	if database.DB == nil {
		return false
	}
	var rec models.RevokedToken
	err := database.DB.WithContext(ctx).Where("id = ?", jti).First(&rec).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("revocation lookup failed", "error", err)
	}
	return err == nil
}

// RevokeJTI blacklists jti until expiresAt.
func RevokeJTI(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return errors.New("empty jti")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if RedisClient != nil {
		return RedisClient.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
	}
	if database.DB != nil {
		rec := models.RevokedToken{ID: jti, ExpiresAt: expiresAt, RevokedAt: time.Now()}
		return database.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	}
	return errors.New("no revocation store configured")
}

// PruneRevoked drops database revocations whose tokens have expired anyway.
func PruneRevoked(ctx context.Context) (int64, error) {
	if database.DB == nil {
		return 0, nil
	}
	res := database.DB.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}

// BearerToken returns the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return tok, tok != ""
}

// GetUser returns the authenticated user stored by the auth middleware.
func GetUser(r *http.Request) (models.User, bool) {
	u, ok := r.Context().Value(UserKey).(models.User)
	return u, ok
}

func GetUserID(r *http.Request) (uint, bool) {
	u, ok := GetUser(r)
	return u.ID, ok && u.ID != 0
}

func GetClaims(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(ClaimsKey).(*Claims)
	return c, ok
}

func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDKey).(string)
	return id
}
