package admins

import (
	"net/http"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/utils"
)

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=worker buyer admin"`
}

type AdjustCoinRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=255"`
}

func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, users)
}

func (c *Controller) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	user, err := c.Users.UpdateRole(id, req.Role)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Role updated", Data: user})
}

// AdjustCoin credits or debits a user's balance. Debits can not go below zero.
func (c *Controller) AdjustCoin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req AdjustCoinRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	user, err := c.Users.AdjustCoin(id, req.Delta, req.Reason)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Balance updated", Data: user})
}

func (c *Controller) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actorID, _ := utils.GetUserID(r)
	if err := c.Users.Delete(actorID, id); err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "User deleted"})
}
