package admins

import (
	"net/http"

	"github.com/einadid/microtask-server/utils"
)

func (c *Controller) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Stats.Admin()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, stats)
}

func (c *Controller) ListPayments(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Payments.All()
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}
