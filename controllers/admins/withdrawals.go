package admins

import (
	"net/http"

	"github.com/einadid/microtask-server/utils"
)

func (c *Controller) PendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Withdrawals.Pending()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}

func (c *Controller) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wd, err := c.Withdrawals.Approve(id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal approved", Data: wd})
}

func (c *Controller) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wd, err := c.Withdrawals.Reject(id)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Withdrawal rejected", Data: wd})
}
