package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/controllers"
	"github.com/einadid/microtask-server/controllers/admins"
	"github.com/einadid/microtask-server/controllers/auth"
	"github.com/einadid/microtask-server/controllers/users"
	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/services"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// guard wraps handlers with authentication, the per-user limiter and an
// optional role check, in that order.
type guard struct {
	limiter *middleware.UserRateLimiter
}

func (g guard) auth(h http.Handler, roles ...string) http.Handler {
	if len(roles) > 0 {
		h = middleware.RequireRole(roles...)(h)
	}
	return middleware.AuthMiddleware(g.limiter.Middleware(h))
}

// self additionally restricts {email} routes to that user or an admin.
func (g guard) self(h http.HandlerFunc, roles ...string) http.Handler {
	return g.auth(middleware.SelfOrAdmin(h), roles...)
}

func allowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"}
	for _, p := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// InitRouter builds the API router. The returned stop function releases the
// rate limiters' cleanup goroutines.
func InitRouter(db *gorm.DB, gateway services.PaymentGateway) (*mux.Router, func()) {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	info := controllers.NewInfoController(db)
	r.Handle("/health", http.HandlerFunc(info.Health)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	origins := allowedOrigins()
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// 30 per IP per 5 minutes for token and registration
	authLimiter := middleware.NewIPRateLimiter(30, 5*time.Minute)
	// 120 reads, 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)
	g := guard{limiter: userLimiter}

	api.Handle("/info", http.HandlerFunc(info.Info)).Methods(http.MethodGet)
	api.Handle("/users/top-workers", http.HandlerFunc(info.TopWorkers)).Methods(http.MethodGet)

	authCtl := auth.NewController(db)
	api.Handle("/auth/jwt", authLimiter.Middleware(http.HandlerFunc(authCtl.Token))).Methods(http.MethodPost)
	api.Handle("/auth/logout", g.auth(http.HandlerFunc(authCtl.Logout))).Methods(http.MethodPost)
	api.Handle("/users", authLimiter.Middleware(http.HandlerFunc(authCtl.Register))).Methods(http.MethodPost)

	// admin routes first so fixed paths win over {email}
	SetAdminRoutes(api, g, admins.NewController(db))
	UsersRoutes(api, g, users.NewController(db, gateway))

	return r, func() {
		authLimiter.Stop()
		userLimiter.Stop()
	}
}
