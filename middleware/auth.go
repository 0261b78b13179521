package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/utils"
)

// AuthMiddleware validates the bearer token and loads the current user from
// the database, so role changes apply to tokens already issued.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := utils.BearerToken(r)
		if !ok {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
			return
		}
		claims, err := utils.ValidateAccessToken(r.Context(), tokenStr)
		if err != nil {
			msg := "Invalid token"
			if strings.Contains(err.Error(), "revoked") {
				msg = "Session has ended, please sign in again"
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: msg})
			return
		}

		var user models.User
		if err := database.DB.WithContext(r.Context()).First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("auth user lookup failed", "id", claims.UserID, "error", err)
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserKey, user)
		ctx = context.WithValue(ctx, utils.ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through only for the given roles. It must run
// after AuthMiddleware.
func RequireRole(roles ...string) mux.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUser(r)
			if !ok {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
				return
			}
			if !allowed[user.Role] {
				utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Forbidden: " + strings.Join(roles, " or ") + " access required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SelfOrAdmin rejects requests whose {email} path variable is not the
// caller's own email, unless the caller is an admin.
func SelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.GetUser(r)
		if !ok {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(mux.Vars(r)["email"]))
		if email != "" && email != user.Email && user.Role != models.RoleAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
