package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/metrics"
	"github.com/einadid/microtask-server/utils"
)

func generateRequestID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(b)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}

// SecurityHeadersMiddleware sets browser hardening headers. CORS is handled
// by gorilla/handlers in the router.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	env := strings.ToLower(getenv("ENV", "development"))
	hsts := getenv("SEC_HSTS", "false") == "true"
	csp := getenv("SEC_CSP", "default-src 'none'; frame-ancestors 'none'; base-uri 'self';")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		if env != "development" {
			h.Set("Content-Security-Policy", csp)
		}
		if hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", clientIPGeneric(r, nil),
			"request_id", rec.Header().Get("X-Request-ID"),
		)
	})
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" || len(rid) > 64 {
			rid = generateRequestID()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), utils.RequestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TimeoutMiddleware cancels the request context after REQ_TIMEOUT_SEC (default 10).
func TimeoutMiddleware(next http.Handler) http.Handler {
	timeout := time.Duration(atoi(getenv("REQ_TIMEOUT_SEC", "10"))) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryMiddleware turns a panic into a logged 500.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := utils.GetRequestID(r)
				logger.Error("panic recovered",
					"request_id", rid,
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{
					Success: false,
					Message: "Internal server error",
					Data:    map[string]string{"request_id": rid},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

var (
	suspiciousMu sync.Mutex
	suspicious   = make(map[string]int)
)

// MetricsMiddleware records Prometheus request metrics by route template and
// counts slow responses per IP. Register it with router.Use so the matched
// route is known.
func MetricsMiddleware(next http.Handler) http.Handler {
	slow := time.Duration(atoi(getenv("METRIC_SLOW_MS", "800"))) * time.Millisecond
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.ActiveRequests.Inc()
		defer metrics.ActiveRequests.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		if slow > 0 && elapsed > slow {
			ip := clientIPGeneric(r, nil)
			suspiciousMu.Lock()
			suspicious[ip]++
			suspiciousMu.Unlock()
			logger.Warn("slow request", "route", route, "ip", ip, "duration_ms", elapsed.Milliseconds())
		}
	})
}

// SuspiciousActivityMiddleware answers 429 to IPs with too many slow responses.
func SuspiciousActivityMiddleware(next http.Handler) http.Handler {
	threshold := atoi(getenv("SUSPICIOUS_THRESHOLD", "10"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if threshold > 0 {
			ip := clientIPGeneric(r, nil)
			suspiciousMu.Lock()
			count := suspicious[ip]
			suspiciousMu.Unlock()
			if count >= threshold {
				utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{Success: false, Message: "Too many requests"})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ResetSuspicious clears the slow-response counters.
func ResetSuspicious() {
	suspiciousMu.Lock()
	suspicious = make(map[string]int)
	suspiciousMu.Unlock()
}
