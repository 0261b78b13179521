// Package cmd implements the microtask command line using Cobra.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/einadid/microtask-server/logger"
)

var rootCmd = &cobra.Command{
	Use:   "microtask",
	Short: "Micro-task marketplace API",
	Long: `microtask serves the REST API of the micro-task marketplace:
buyers post paid tasks, workers submit proof and withdraw earned coins.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Sync()
		os.Exit(1)
	}
}

// setup loads .env without overriding variables already set, then builds
// the logger.
func setup(cmd *cobra.Command, args []string) error {
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}
	return logger.Init(env())
}

func env() string {
	if e := strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))); e != "" {
		return e
	}
	return "development"
}

// requireEnv fails on the first missing variable. Database settings are only
// required for the server drivers.
func requireEnv() error {
	required := []string{"JWT_SECRET"}
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	if driver != "sqlite" && os.Getenv("DB_DSN") == "" {
		required = append(required, "DB_HOST", "DB_USER", "DB_PASS", "DB_NAME")
	}
	for _, key := range required {
		if os.Getenv(key) == "" {
			return fmt.Errorf("required environment variable %s is not set", key)
		}
	}
	return nil
}
