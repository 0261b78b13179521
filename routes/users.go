package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/einadid/microtask-server/controllers/users"
	"github.com/einadid/microtask-server/models"
)

// UsersRoutes registers the worker, buyer and shared account routes.
func UsersRoutes(api *mux.Router, g guard, c *users.Controller) {
	const (
		worker = models.RoleWorker
		buyer  = models.RoleBuyer
		admin  = models.RoleAdmin
	)

	// Account
	api.Handle("/users/{email}", g.self(c.Profile)).Methods(http.MethodGet)
	api.Handle("/users/transactions/{email}", g.self(c.Transactions)).Methods(http.MethodGet)

	// Tasks
	api.Handle("/tasks/available", g.auth(http.HandlerFunc(c.AvailableTasks), worker, admin)).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}", g.auth(http.HandlerFunc(c.GetTask))).Methods(http.MethodGet)
	api.Handle("/tasks", g.auth(http.HandlerFunc(c.CreateTask), buyer)).Methods(http.MethodPost)
	api.Handle("/tasks/buyer/{email}", g.self(c.BuyerTasks, buyer, admin)).Methods(http.MethodGet)
	api.Handle("/tasks/buyer-stats/{email}", g.self(c.BuyerStats, buyer, admin)).Methods(http.MethodGet)
	api.Handle("/tasks/{id:[0-9]+}", g.auth(http.HandlerFunc(c.UpdateTask), buyer)).Methods(http.MethodPatch)
	api.Handle("/tasks/{id:[0-9]+}", g.auth(http.HandlerFunc(c.DeleteTask), buyer)).Methods(http.MethodDelete)

	// Submissions
	api.Handle("/submissions", g.auth(http.HandlerFunc(c.Submit), worker)).Methods(http.MethodPost)
	api.Handle("/submissions/worker/{email}", g.self(c.WorkerSubmissions, worker, admin)).Methods(http.MethodGet)
	api.Handle("/submissions/approved/{email}", g.self(c.ApprovedSubmissions, worker, admin)).Methods(http.MethodGet)
	api.Handle("/submissions/worker-stats/{email}", g.self(c.WorkerStats, worker, admin)).Methods(http.MethodGet)
	api.Handle("/submissions/pending/{email}", g.self(c.PendingSubmissions, buyer, admin)).Methods(http.MethodGet)
	api.Handle("/submissions/approve/{id:[0-9]+}", g.auth(http.HandlerFunc(c.ApproveSubmission), buyer)).Methods(http.MethodPatch)
	api.Handle("/submissions/reject/{id:[0-9]+}", g.auth(http.HandlerFunc(c.RejectSubmission), buyer)).Methods(http.MethodPatch)

	// Withdrawals
	api.Handle("/withdrawals", g.auth(http.HandlerFunc(c.RequestWithdrawal), worker)).Methods(http.MethodPost)
	api.Handle("/withdrawals/worker/{email}", g.self(c.WorkerWithdrawals, worker, admin)).Methods(http.MethodGet)

	// Payments
	api.Handle("/payments/create-payment-intent", g.auth(http.HandlerFunc(c.CreatePaymentIntent), buyer)).Methods(http.MethodPost)
	api.Handle("/payments", g.auth(http.HandlerFunc(c.ConfirmPayment), buyer)).Methods(http.MethodPost)
	api.Handle("/payments/buyer/{email}", g.self(c.BuyerPayments, buyer, admin)).Methods(http.MethodGet)

	// Notifications
	api.Handle("/notifications/{email}", g.self(c.ListNotifications)).Methods(http.MethodGet)
	api.Handle("/notifications/unread/{email}", g.self(c.UnreadCount)).Methods(http.MethodGet)
	api.Handle("/notifications/mark-read/{email}", g.self(c.MarkRead)).Methods(http.MethodPatch)
	api.Handle("/notifications/{id:[0-9]+}", g.auth(http.HandlerFunc(c.DeleteNotification))).Methods(http.MethodDelete)
}
