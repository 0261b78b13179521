package middleware

import (
	"net/http"
	"os"
	"strconv"
)

// MaxBodyMiddleware caps request bodies at MAX_BODY_BYTES (default 1 MiB).
func MaxBodyMiddleware(next http.Handler) http.Handler {
	limit := int64(1 << 20)
	if s := os.Getenv("MAX_BODY_BYTES"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			limit = v
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
