package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/accounts/internal/credential"
	"github.com/msomdec/accounts/internal/handler"
	"github.com/msomdec/accounts/internal/repository/sqlite"
	"github.com/msomdec/accounts/internal/service"
)

const testSessionSecret = "test-secret-for-handler-tests-0123456789"

func newTestDeps(t *testing.T) (handler.Deps, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher, err := credential.NewHasher(credential.Params{N: 16, R: 8, P: 1, KeyLen: 32}, 4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	limiter := service.NewTokenBucket(100, 100)
	t.Cleanup(limiter.Close)

	return handler.Deps{
		Auth:          service.NewAuthService(db.Users(), hasher),
		Users:         service.NewUserService(db.Users(), hasher),
		Sessions:      service.NewSessionService(testSessionSecret, time.Hour),
		SigninLimiter: limiter,
	}, db
}

// newTestServer starts the full router and returns a client with a cookie jar.
func newTestServer(t *testing.T, deps handler.Deps) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(handler.NewRouter(deps))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return srv, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return v
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func newLimiter(t *testing.T, burst float64) *service.TokenBucket {
	t.Helper()
	tb := service.NewTokenBucket(0.001, burst)
	t.Cleanup(tb.Close)
	return tb
}
