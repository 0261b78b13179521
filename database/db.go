package database

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/einadid/microtask-server/logger"
)

var DB *gorm.DB

// Connect opens the database selected by DB_DRIVER (mysql, postgres or
// sqlite) with pooling and retry, and stores it in DB.
func Connect() (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}

	driver := strings.ToLower(getenv("DB_DRIVER", "mysql"))
	dialector, safeDSN, err := dialectorFor(driver)
	if err != nil {
		return nil, err
	}
	logger.Info("[database] connecting", "driver", driver, "dsn", safeDSN)

	var gormLog gormlogger.Interface
	if strings.ToLower(getenv("ENV", "development")) == "development" {
		gormLog = gormlogger.Default.LogMode(gormlogger.Warn)
	} else {
		gormLog = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	maxRetries := atoi(getenv("DB_CONNECT_RETRIES", "5"))
	if maxRetries == 0 {
		maxRetries = 1
	}
	var db *gorm.DB
	backoff := time.Second
	for attempt := 0; attempt < maxRetries; attempt++ {
		db, err = gorm.Open(dialector, &gorm.Config{Logger: gormLog, TranslateError: true})
		if err == nil {
			break
		}
		logger.Warn("[database] open failed", "attempt", attempt+1, "error", err)
		if attempt < maxRetries-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer; avoids "database is locked" under concurrent transactions
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(atoi(getenv("DB_MAX_OPEN_CONNS", "25")))
		sqlDB.SetMaxIdleConns(atoi(getenv("DB_MAX_IDLE_CONNS", "25")))
		sqlDB.SetConnMaxLifetime(time.Duration(atoi(getenv("DB_CONN_MAX_LIFETIME", "3600"))) * time.Second)
	}

	if getenv("DB_PING_ON_CONNECT", "true") == "true" {
		if err := pingWithTimeout(sqlDB, 5*time.Second); err != nil {
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
	}

	DB = db
	return DB, nil
}

// Close closes the pool opened by Connect.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}

func dialectorFor(driver string) (gorm.Dialector, string, error) {
	dsn := os.Getenv("DB_DSN")
	switch driver {
	case "mysql":
		dsn, pass, err := mysqlDSN(dsn)
		if err != nil {
			return nil, "", err
		}
		return gormmysql.Open(dsn), maskPassword(dsn, pass), nil
	case "postgres", "postgresql":
		pass := getenv("DB_PASS", "")
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
				getenv("DB_HOST", "127.0.0.1"),
				getenv("DB_USER", "postgres"),
				pass,
				getenv("DB_NAME", "microtask"),
				getenv("DB_PORT", "5432"),
				getenv("DB_SSLMODE", "require"),
			)
		}
		return postgres.Open(dsn), maskPassword(dsn, pass), nil
	case "sqlite":
		if dsn == "" {
			dsn = getenv("DB_PATH", "microtask.db")
		}
		return sqlite.Open(dsn), dsn, nil
	}
	return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// mysqlDSN builds the MySQL DSN with TLS and timeout params, and registers
// the "custom" TLS config when strict verification is requested.
func mysqlDSN(dsn string) (string, string, error) {
	user := getenv("DB_USER", "root")
	pass := getenv("DB_PASS", "")
	if strings.ToLower(getenv("DB_ROLE", "write")) == "read" {
		if ruser := getenv("DB_READ_USER", ""); ruser != "" {
			user = ruser
			pass = getenv("DB_READ_PASS", "")
		}
	}

	if dsn == "" {
		params := getenv("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC")
		if !strings.Contains(params, "tls=") {
			tlsMode := getenv("DB_TLS", "true")
			if tlsMode == "true" || tlsMode == "preferred" {
				if getenv("DB_TLS_VERIFY", "false") == "true" {
					params += "&tls=custom"
				} else {
					params += "&tls=true"
				}
			}
		}
		for _, p := range []string{"timeout", "readTimeout", "writeTimeout"} {
			if !strings.Contains(params, p+"=") {
				params += "&" + p + "=10s"
			}
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass,
			getenv("DB_HOST", "127.0.0.1"), getenv("DB_PORT", "3306"), getenv("DB_NAME", "microtask"), params)
	}

	if strings.Contains(dsn, "tls=custom") {
		tlsCfg, err := customTLSConfig()
		if err != nil {
			return "", "", err
		}
		if err := mysqldriver.RegisterTLSConfig("custom", tlsCfg); err != nil {
			return "", "", fmt.Errorf("register TLS config: %w", err)
		}
	}
	return dsn, pass, nil
}

func customTLSConfig() (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if caPath := getenv("DB_TLS_CA_PATH", ""); caPath != "" {
		caCert, err := os.ReadFile(caPath)
		if err != nil {
			return nil, fmt.Errorf("failed reading DB TLS CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to append CA certs")
		}
		tlsCfg.RootCAs = pool
	}
	clientCert := getenv("DB_TLS_CLIENT_CERT", "")
	clientKey := getenv("DB_TLS_CLIENT_KEY", "")
	if clientCert != "" && clientKey != "" {
		cert, err := tls.LoadX509KeyPair(clientCert, clientKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

func maskPassword(dsn, pass string) string {
	if pass == "" {
		return dsn
	}
	return strings.Replace(dsn, pass, "******", 1)
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func pingWithTimeout(db *sql.DB, timeout time.Duration) error {
	ch := make(chan error, 1)
	go func() {
		ch <- db.Ping()
	}()
	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("ping timeout after %s", timeout)
	}
}
