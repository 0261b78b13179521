package users

import (
	"net/http"

	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/utils"
)

type CreateIntentRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,max=255"`
}

func (c *Controller) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CreateIntentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	intent, pkg, err := c.Payments.CreateIntent(r.Context(), buyer, req.PackageID)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, map[string]interface{}{
		"clientSecret": intent.ClientSecret,
		"intent_id":    intent.ID,
		"package":      pkg,
	})
}

// ConfirmPayment credits the coins of a payment the gateway reports as
// succeeded.
func (c *Controller) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	buyer, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	payment, err := c.Payments.Confirm(r.Context(), buyer, req.TransactionID)
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Payment recorded", Data: payment})
}

func (c *Controller) BuyerPayments(w http.ResponseWriter, r *http.Request) {
	rows, err := c.Payments.ByBuyer(utils.PathEmail(r))
	if err != nil {
		utils.WriteServiceError(w, r, err)
		return
	}
	utils.WriteOK(w, rows)
}
