package auth

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

type Controller struct {
	Users *services.UserService
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{Users: services.NewUserService(db)}
}

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Token issues an access token for an already registered email. The caller
// has been authenticated by the identity provider.
func (c *Controller) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	user, err := c.Users.GetByEmail(req.Email)
	if err != nil {
		if services.KindOf(err) == services.KindNotFound {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Account not registered"})
			return
		}
		utils.WriteServiceError(w, r, err)
		return
	}
	token, exp, err := utils.GenerateAccessToken(user)
	if err != nil {
		logger.Error("token signing failed", "email", user.Email, "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to issue token"})
		return
	}
	utils.WriteOK(w, tokenResponse{Token: token, ExpiresAt: exp, User: user})
}

// Logout revokes the presented token until it would have expired.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaims(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	if err := utils.RevokeJTI(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.Error("token revocation failed", "jti", claims.ID, "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to sign out"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Signed out"})
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
	Role     string `json:"role" validate:"required,oneof=worker buyer"`
}

// Register creates the account with its signup bonus. Registering an
// existing email returns the stored account with 200.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	user, created, err := c.Users.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
	})
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	if !created {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User already exists", Data: user})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Registration successful", Data: user})
}
