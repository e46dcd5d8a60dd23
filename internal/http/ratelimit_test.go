package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"financeai/internal/log"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := newRateLimiter(0.001, 1)
	defer rl.stop()

	if ok, _ := rl.allow("10.0.0.1"); !ok {
		t.Fatal("first request should pass")
	}
	if ok, rejected := rl.allow("10.0.0.1"); ok || rejected != 1 {
		t.Fatalf("second request: ok=%v rejected=%d, want limited with 1 rejection", ok, rejected)
	}
	if ok, _ := rl.allow("10.0.0.2"); !ok {
		t.Fatal("other clients keep their own bucket")
	}
	if _, rejected := rl.allow("10.0.0.1"); rejected != 2 {
		t.Fatalf("rejected = %d, want running total 2", rejected)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := newRateLimiter(10, 10)
	defer rl.stop()

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	if n := rl.cleanupStaleEntries(time.Now().Add(-time.Minute)); n != 0 {
		t.Fatalf("removed %d fresh entries", n)
	}
	if n := rl.cleanupStaleEntries(time.Now().Add(time.Minute)); n != 2 {
		t.Fatalf("removed %d entries, want 2", n)
	}
	rl.stop() // idempotent
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := newRateLimiter(0.001, 1)
	defer rl.stop()
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})
	h := log.Middleware(logger)(rl.middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	line := buf.String()
	for _, want := range []string{"Rate limit exceeded", "component=rate_limit", "client_ip=192.0.2.1", "rejected_total=1"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("Retry-After") != "1" {
		t.Fatal("Retry-After missing")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:5555"
	if got := clientIP(r); got != "203.0.113.7" {
		t.Fatalf("clientIP = %q", got)
	}
	r.RemoteAddr = "203.0.113.7"
	if got := clientIP(r); got != "203.0.113.7" {
		t.Fatalf("clientIP without port = %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := DefaultSecurityHeaders().middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, name := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy", "Cache-Control"} {
		if rr.Header().Get(name) == "" {
			t.Errorf("%s not set", name)
		}
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}
}
