package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/middleware"
	"github.com/einadid/microtask-server/routes"
	"github.com/einadid/microtask-server/services"
	"github.com/einadid/microtask-server/utils"
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

var (
	servePort    string
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := requireEnv(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close()

	// Auto-migrate only in development unless asked explicitly
	if serveMigrate || env() == "development" {
		logger.Info("performing auto-migration")
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	utils.InitRedis(cmd.Context())
	if utils.RedisClient != nil {
		defer utils.RedisClient.Close()
	}

	var gateway services.PaymentGateway
	if stripe := utils.NewStripeClientFromEnv(); stripe != nil {
		gateway = stripe
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, coin purchases are disabled")
	}

	router, stopLimiters := routes.InitRouter(db, gateway)
	defer stopLimiters()

	// Logging -> Security headers -> Request ID -> Max Body -> Timeout -> Recovery -> Suspicious Activity
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(
							middleware.SuspiciousActivityMiddleware(router),
						),
					),
				),
			),
		),
	)

	jobs, err := startJobs(db)
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	port := servePort
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", port, "env", env())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server exited")
	logger.Sync()
	return nil
}

// startJobs schedules the daily cleanup of read notifications and expired
// token revocations.
func startJobs(db *gorm.DB) (*cron.Cron, error) {
	days, err := strconv.Atoi(os.Getenv("NOTIFICATION_RETENTION_DAYS"))
	if err != nil || days <= 0 {
		days = 30
	}
	retention := time.Duration(days) * 24 * time.Hour
	notifications := services.NewNotificationService(db)

	c := cron.New()
	_, err = c.AddFunc(getSchedule(), func() {
		n, err := notifications.PruneRead(retention)
		if err != nil {
			logger.Error("notification prune failed", "error", err)
		} else if n > 0 {
			logger.Info("notifications pruned", "count", n)
		}
		if n, err := utils.PruneRevoked(context.Background()); err != nil {
			logger.Error("revocation prune failed", "error", err)
		} else if n > 0 {
			logger.Info("revocations pruned", "count", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func getSchedule() string {
	if s := os.Getenv("CLEANUP_SCHEDULE"); s != "" {
		return s
	}
	return "@daily"
}
