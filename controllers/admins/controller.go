package admins

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

// Controller serves the admin-only endpoints.
type Controller struct {
	Users       *services.UserService
	Tasks       *services.TaskService
	Withdrawals *services.WithdrawalService
	Payments    *services.PaymentService
	Stats       *services.StatsService
	Settings    *services.SettingService
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{
		Users:       services.NewUserService(db),
		Tasks:       services.NewTaskService(db),
		Withdrawals: services.NewWithdrawalService(db),
		Payments:    services.NewPaymentService(db, nil),
		Stats:       services.NewStatsService(db),
		Settings:    services.NewSettingService(db),
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := utils.PathID(r, "id")
	if !ok {
		utils.WriteBadRequest(w, "Invalid id")
	}
	return id, ok
}
