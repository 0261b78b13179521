package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/utils"
)

func useTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

func authedRouter(roles ...string) *mux.Router {
	r := mux.NewRouter()
	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(AuthMiddleware)
	if len(roles) > 0 {
		sub.Use(RequireRole(roles...))
	}
	sub.Handle("/users/{email}", SelfOrAdmin(okHandler())).Methods("GET")
	sub.Handle("/me", okHandler()).Methods("GET")
	return r
}

func tokenFor(t *testing.T, db *gorm.DB, email, role string) (models.User, string) {
	t.Helper()
	u := models.User{Name: "u", Email: email, Role: role}
	require.NoError(t, db.Create(&u).Error)
	tok, _, err := utils.GenerateAccessToken(u)
	require.NoError(t, err)
	return u, tok
}

func get(h http.Handler, path, tok string) int {
	req := httptest.NewRequest("GET", path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	useTestDB(t)
	h := authedRouter()

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/me", ""))
	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/me", "not-a-jwt"))
}

func TestAuthMiddleware_RevokedTokenIsRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := useTestDB(t)
	h := authedRouter()
	_, tok := tokenFor(t, db, "w@example.com", models.RoleWorker)
	require.Equal(t, http.StatusOK, get(h, "/api/me", tok))

	req := httptest.NewRequest("GET", "/", nil)
	claims, err := utils.ValidateAccessToken(req.Context(), tok)
	require.NoError(t, err)
	require.NoError(t, utils.RevokeJTI(req.Context(), claims.ID, time.Now().Add(time.Hour)))

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/me", tok))
}

func TestRequireRole_UsesStoredRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := useTestDB(t)
	h := authedRouter(models.RoleAdmin)
	u, tok := tokenFor(t, db, "b@example.com", models.RoleBuyer)

	assert.Equal(t, http.StatusForbidden, get(h, "/api/me", tok))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Update("role", models.RoleAdmin).Error)
	assert.Equal(t, http.StatusOK, get(h, "/api/me", tok))
}

func TestSelfOrAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := useTestDB(t)
	h := authedRouter()
	_, workerTok := tokenFor(t, db, "w@example.com", models.RoleWorker)
	_, adminTok := tokenFor(t, db, "a@example.com", models.RoleAdmin)

	assert.Equal(t, http.StatusOK, get(h, "/api/users/w@example.com", workerTok))
	assert.Equal(t, http.StatusOK, get(h, "/api/users/W@Example.com", workerTok))
	assert.Equal(t, http.StatusForbidden, get(h, "/api/users/someone@example.com", workerTok))
	assert.Equal(t, http.StatusOK, get(h, "/api/users/someone@example.com", adminTok))
}
