package users

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

// Controller serves the worker and buyer endpoints.
type Controller struct {
	Users         *services.UserService
	Tasks         *services.TaskService
	Submissions   *services.SubmissionService
	Withdrawals   *services.WithdrawalService
	Payments      *services.PaymentService
	Notifications *services.NotificationService
	Stats         *services.StatsService
}

func NewController(db *gorm.DB, gateway services.PaymentGateway) *Controller {
	return &Controller{
		Users:         services.NewUserService(db),
		Tasks:         services.NewTaskService(db),
		Submissions:   services.NewSubmissionService(db),
		Withdrawals:   services.NewWithdrawalService(db),
		Payments:      services.NewPaymentService(db, gateway),
		Notifications: services.NewNotificationService(db),
		Stats:         services.NewStatsService(db),
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := utils.GetUser(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
	}
	return user, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := utils.PathID(r, "id")
	if !ok {
		utils.WriteBadRequest(w, "Invalid id")
	}
	return id, ok
}

// Profile returns the user addressed by {email}.
func (c *Controller) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := c.Users.GetByEmail(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, user)
}

// Transactions returns the coin journal of {email}.
func (c *Controller) Transactions(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Users.Transactions(utils.PathEmail(r), utils.QueryInt(r, "limit", 50))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}
