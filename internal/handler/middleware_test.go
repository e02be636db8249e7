package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/msomdec/accounts/internal/handler"
	"github.com/msomdec/accounts/internal/logging"
	"github.com/msomdec/accounts/internal/service"
)

func TestCurrentUser_ValidSession(t *testing.T) {
	deps, _ := newTestDeps(t)
	ctx := context.Background()

	user, err := deps.Auth.Signup(ctx, "valid@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	value, err := deps.Sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotEmail string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := handler.UserFromContext(r.Context()); u != nil {
			gotEmail = u.Email
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: value})
	w := httptest.NewRecorder()

	handler.CurrentUser(deps.Sessions, deps.Users, inner).ServeHTTP(w, req)

	if gotEmail != "valid@example.com" {
		t.Fatalf("expected user valid@example.com, got %q", gotEmail)
	}
}

func TestCurrentUser_Anonymous(t *testing.T) {
	deps, _ := newTestDeps(t)
	ctx := context.Background()

	user, err := deps.Auth.Signup(ctx, "gone@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	staleValue, err := deps.Sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := deps.Users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage", &http.Cookie{Name: "session", Value: "not-a-token"}},
		{"deleted user", &http.Cookie{Name: "session", Value: staleValue}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if u := handler.UserFromContext(r.Context()); u != nil {
					t.Fatalf("expected anonymous request, got user %d", u.ID)
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			handler.CurrentUser(deps.Sessions, deps.Users, inner).ServeHTTP(httptest.NewRecorder(), req)

			if !called {
				t.Fatal("inner handler was not called")
			}
		})
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := service.NewTokenBucket(0.001, 2)
	defer limiter.Close()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := handler.RateLimit(limiter, inner)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/signin", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	for i := range 2 {
		if code := send("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", code)
	}
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("inside")
	})
	h := handler.RequestID(logger, inner)

	t.Run("propagates incoming id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(handler.HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if got := w.Header().Get(handler.HeaderRequestID); got != "abc-123" {
			t.Fatalf("expected request id abc-123, got %q", got)
		}
		if !strings.Contains(buf.String(), "request_id=abc-123") {
			t.Fatalf("expected log line tagged with request id, got %q", buf.String())
		}
	})

	t.Run("generates missing id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if got := w.Header().Get(handler.HeaderRequestID); len(got) != 36 {
			t.Fatalf("expected generated UUID, got %q", got)
		}
	})
}

func TestLogRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		http.NewResponseController(w).Flush()
	})

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))
	w := httptest.NewRecorder()

	handler.LogRequests(inner).ServeHTTP(w, req)

	if !w.Flushed {
		t.Fatal("expected flush to reach the underlying writer")
	}
	out := buf.String()
	if !strings.Contains(out, "status=418") || !strings.Contains(out, "path=/brew") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	w := httptest.NewRecorder()

	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
}
