package admins

import (
	"net/http"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/utils"
)

type SettingsRequest struct {
	WorkerSignupBonus int64 `json:"worker_signup_bonus" validate:"min=0"`
	BuyerSignupBonus  int64 `json:"buyer_signup_bonus" validate:"min=0"`
	MinWithdrawCoin   int64 `json:"min_withdraw_coin" validate:"min=1"`
	CoinsPerDollar    int64 `json:"coins_per_dollar" validate:"min=1"`
	Maintenance       bool  `json:"maintenance"`
	ClosedRegister    bool  `json:"closed_register"`
}

func (c *Controller) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := c.Settings.Get()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, s)
}

func (c *Controller) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	s, err := c.Settings.Update(models.Setting{
		WorkerSignupBonus: req.WorkerSignupBonus,
		BuyerSignupBonus:  req.BuyerSignupBonus,
		MinWithdrawCoin:   req.MinWithdrawCoin,
		CoinsPerDollar:    req.CoinsPerDollar,
		Maintenance:       req.Maintenance,
		ClosedRegister:    req.ClosedRegister,
	})
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated", Data: s})
}
