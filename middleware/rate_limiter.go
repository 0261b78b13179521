package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/einadid/microtask-server/models"
	"github.com/einadid/microtask-server/utils"
)

func getEnvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

// slidingWindow keeps request timestamps per key.
type slidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
	stop   chan struct{}
	once   sync.Once
}

func newSlidingWindow(window time.Duration) *slidingWindow {
	return &slidingWindow{
		window: window,
		hits:   make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
}

// add records a hit for key at now and returns the hits still inside the
// window and the time the oldest of them expires.
func (s *slidingWindow) add(key string, now time.Time) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := prune(s.hits[key], now.Add(-s.window))
	kept = append(kept, now)
	s.hits[key] = kept
	return len(kept), kept[0].Add(s.window)
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && ts[i].Before(cutoff) {
		i++
	}
	return ts[i:]
}

func (s *slidingWindow) cleanupLoop(every time.Duration, extra func(now time.Time)) {
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-tick.C:
			s.mu.Lock()
			for k, ts := range s.hits {
				if kept := prune(ts, now.Add(-s.window)); len(kept) == 0 {
					delete(s.hits, k)
				} else {
					s.hits[k] = kept
				}
			}
			if extra != nil {
				extra(now)
			}
			s.mu.Unlock()
		}
	}
}

func (s *slidingWindow) close() {
	s.once.Do(func() { close(s.stop) })
}

func retryAfterSeconds(now, reset time.Time) int {
	secs := int(reset.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

func writeTooMany(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
		Success: false,
		Message: "Too many requests, please try again later",
		Data:    map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

// IPRateLimiter limits requests per client IP. X-Forwarded-For is honored
// only from TRUSTED_PROXIES.
type IPRateLimiter struct {
	*slidingWindow
	max         int
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	if maxReq <= 0 {
		maxReq = getEnvInt("RATE_IP_DEFAULT", 200)
	}
	l := &IPRateLimiter{slidingWindow: newSlidingWindow(window), max: maxReq}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop(getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second), nil)
	return l
}

// Stop ends the cleanup goroutine.
func (l *IPRateLimiter) Stop() { l.close() }

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		count, reset := l.add(clientIPGeneric(r, l.trustedCIDR), now)
		remaining := l.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if count > l.max {
			writeTooMany(w, retryAfterSeconds(now, reset))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIPGeneric returns the client IP. Forwarding headers are used only when
// the remote address is one of trustedCIDR (CIDRs or single IPs).
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	remoteIP := net.ParseIP(host)
	if remoteIP == nil || !ipTrusted(remoteIP, trustedCIDR) {
		return host
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	return host
}

func ipTrusted(ip net.IP, trusted []string) bool {
	for _, entry := range trusted {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, ipnet, err := net.ParseCIDR(entry); err == nil && ipnet.Contains(ip) {
				return true
			}
			continue
		}
		if t := net.ParseIP(entry); t != nil && t.Equal(ip) {
			return true
		}
	}
	return false
}

// UserRateLimiter limits authenticated users separately for reads and writes,
// with escalating lockouts for repeat offenders. Admins are not limited.
type UserRateLimiter struct {
	*slidingWindow
	maxRead  int
	maxWrite int
	penalty  map[string]penaltyInfo
}

type penaltyInfo struct {
	Level int
	Until time.Time
}

var penaltySteps = []time.Duration{time.Minute, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute}

func NewUserRateLimiter(maxReqRead, maxReqWrite int, windowSec int) *UserRateLimiter {
	l := &UserRateLimiter{
		slidingWindow: newSlidingWindow(time.Duration(windowSec) * time.Second),
		maxRead:       maxReqRead,
		maxWrite:      maxReqWrite,
		penalty:       make(map[string]penaltyInfo),
	}
	go l.cleanupLoop(getEnvDuration("RATE_CLEANUP_SECONDS", 60*time.Second), func(now time.Time) {
		for k, p := range l.penalty {
			if p.Until.Before(now) {
				delete(l.penalty, k)
			}
		}
	})
	return l
}

func (l *UserRateLimiter) Stop() { l.close() }

func (l *UserRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.GetUser(r)
		if !ok || user.Role == models.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}
		cat, limit := "read", l.maxRead
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			cat, limit = "write", l.maxWrite
		}
		key := "u:" + strconv.FormatUint(uint64(user.ID), 10) + ":" + cat
		now := time.Now()

		l.mu.Lock()
		if p := l.penalty[key]; p.Until.After(now) {
			l.mu.Unlock()
			writeTooMany(w, retryAfterSeconds(now, p.Until))
			return
		}
		l.mu.Unlock()

		count, _ := l.add(key, now)
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if count > limit {
			l.mu.Lock()
			p := l.penalty[key]
			step := penaltySteps[min(p.Level, len(penaltySteps)-1)]
			l.penalty[key] = penaltyInfo{Level: p.Level + 1, Until: now.Add(step)}
			l.mu.Unlock()
			writeTooMany(w, int(step.Seconds()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
