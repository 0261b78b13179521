package controllers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

type InfoController struct {
	DB    *gorm.DB
	Users *services.UserService
}

func NewInfoController(db *gorm.DB) *InfoController {
	return &InfoController{DB: db, Users: services.NewUserService(db)}
}

// Health answers the container health check. A failing database ping
// reports 503.
func (c *InfoController) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, code, utils.APIResponse{
		Success: code == http.StatusOK,
		Message: status,
		Data: map[string]interface{}{
			"status":    status,
			"timestamp": time.Now().Unix(),
			"service":   "microtask-api",
		},
	})
}

// Info returns the public application settings and the coin packages.
func (c *InfoController) Info(w http.ResponseWriter, r *http.Request) {
	setting, err := models.LoadSetting(c.DB)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, map[string]interface{}{
		"maintenance":         setting.Maintenance,
		"closed_register":     setting.ClosedRegister,
		"coins_per_dollar":    setting.CoinsPerDollar,
		"min_withdraw_coin":   setting.MinWithdrawCoin,
		"worker_signup_bonus": setting.WorkerSignupBonus,
		"buyer_signup_bonus":  setting.BuyerSignupBonus,
		"packages":            services.Packages(),
	})
}

type topWorker struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Coin     int64  `json:"coin"`
}

// TopWorkers lists the richest workers without exposing their emails.
func (c *InfoController) TopWorkers(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Users.TopWorkers(utils.QueryInt(r, "limit", 6))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	out := make([]topWorker, 0, len(rows))
	for _, u := range rows {
		out = append(out, topWorker{Name: u.Name, PhotoURL: u.PhotoURL, Coin: u.Coin})
	}
	utils.WriteOK(w, out)
}
