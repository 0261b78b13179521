package users

import (
	"net/http"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

type WithdrawalRequest struct {
	Coin          int64  `json:"withdrawal_coin" validate:"required,min=1"`
	PaymentSystem string `json:"payment_system" validate:"required,max=50"`
	AccountNumber string `json:"account_number" validate:"required,max=100"`
}

// RequestWithdrawal files a pending withdrawal. Coins are debited only when
// an admin approves it.
func (c *Controller) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	worker, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req WithdrawalRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	wd, err := c.Withdrawals.Request(worker, services.WithdrawalInput{
		Coin:          req.Coin,
		PaymentSystem: req.PaymentSystem,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Withdrawal requested", Data: wd})
}

func (c *Controller) WorkerWithdrawals(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Withdrawals.ByWorker(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}
