package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/einadid/microtask-server/controllers/admins"
	"github.com/einadid/microtask-server/models"
)

// SetAdminRoutes registers the routes reserved to admins.
func SetAdminRoutes(api *mux.Router, g guard, c *admins.Controller) {
	admin := func(h http.HandlerFunc) http.Handler {
		return g.auth(h, models.RoleAdmin)
	}

	// Users
	api.Handle("/users", admin(c.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users/admin-stats", admin(c.DashboardStats)).Methods(http.MethodGet)
	api.Handle("/users/role/{id:[0-9]+}", admin(c.UpdateRole)).Methods(http.MethodPatch)
	api.Handle("/users/coin/{id:[0-9]+}", admin(c.AdjustCoin)).Methods(http.MethodPatch)
	api.Handle("/users/{id:[0-9]+}", admin(c.DeleteUser)).Methods(http.MethodDelete)

	// Tasks
	api.Handle("/tasks", admin(c.ListTasks)).Methods(http.MethodGet)
	api.Handle("/tasks/admin/{id:[0-9]+}", admin(c.DeleteTask)).Methods(http.MethodDelete)

	// Withdrawals
	api.Handle("/withdrawals/pending", admin(c.PendingWithdrawals)).Methods(http.MethodGet)
	api.Handle("/withdrawals/approve/{id:[0-9]+}", admin(c.ApproveWithdrawal)).Methods(http.MethodPatch)
	api.Handle("/withdrawals/reject/{id:[0-9]+}", admin(c.RejectWithdrawal)).Methods(http.MethodPatch)

	// Payments and settings
	api.Handle("/payments", admin(c.ListPayments)).Methods(http.MethodGet)
	api.Handle("/settings", admin(c.GetSettings)).Methods(http.MethodGet)
	api.Handle("/settings", admin(c.UpdateSettings)).Methods(http.MethodPut)
}
