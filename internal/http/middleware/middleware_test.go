package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/metrics"
)

type stubAuthenticator struct {
	accounts map[string]account.Account
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*account.Account, error) {
	caller, ok := s.accounts[token]
	if !ok {
		return nil, common.NewError(common.CodeUnauthorized, "not authorized, token failed", nil)
	}
	return &caller, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	company := account.Account{ID: common.NewUUID(), Profile: &account.CompanyProfile{CompanyName: "Acme"}}
	auth := NewAuthMiddleware(stubAuthenticator{accounts: map[string]account.Account{"good": company}})

	var seen account.Account
	handler := auth.Authenticate(RequireRole(account.RoleCompany, account.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/internships/my-internships", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, tc.header)
	}
	assert.Equal(t, company.ID, seen.ID)

	student := account.Account{ID: common.NewUUID(), Profile: &account.StudentProfile{}}
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(WithAccount(context.Background(), student))
	rec := httptest.NewRecorder()
	RequireRole(account.RoleCompany)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "role student is not authorized")
}

func TestChainOrderAndRequestID(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	var requestID string
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = RequestIDFromContext(r.Context())
	}), mark("a"), RequestID, mark("b"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b"}, order)
	require.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc-123", requestID)
}

func TestRecoverTurnsPanicsIntoInternalErrors(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestBodyLimitRejectsLargeBodies(t *testing.T) {
	handler := BodyLimit(8)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

func TestMetricsRecordsStatus(t *testing.T) {
	collector := metrics.NewCollector()
	handler := Metrics(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/internships", nil))

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `route="/api/internships",status="418"`)
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/internships", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/internships", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterRefillsPerWindow(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("login:1.2.3.4", 3, time.Minute), "attempt %d", i)
	}
	assert.False(t, limiter.Allow("login:1.2.3.4", 3, time.Minute))
	assert.True(t, limiter.Allow("login:5.6.7.8", 3, time.Minute))

	now = now.Add(20 * time.Second)
	assert.True(t, limiter.Allow("login:1.2.3.4", 3, time.Minute))
	assert.False(t, limiter.Allow("login:1.2.3.4", 3, time.Minute))
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	handler := RateLimit(NewRateLimiter(), ClientIP, 1, time.Minute)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "10.0.0.1", ClientIP(req))
}

// fakeScripter evaluates the fixed-window script against an in-memory map.
type fakeScripter struct {
	mu     sync.Mutex
	counts map[string]int64
	down   bool
}

func (f *fakeScripter) run(ctx context.Context, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.down {
		cmd.SetErr(errors.New("dial tcp: connection refused"))
		return cmd
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[keys[0]]++
	limit := int64(args[1].(int))
	if f.counts[keys[0]] > limit {
		cmd.SetVal(int64(0))
	} else {
		cmd.SetVal(int64(1))
	}
	return cmd
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) EvalShaRO(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.run(ctx, keys, args...)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestRedisLimiterCountsPerKey(t *testing.T) {
	scripter := &fakeScripter{counts: map[string]int64{}}
	limiter := NewRedisLimiter(scripter, nil, nil)

	assert.True(t, limiter.Allow("apply:1", 2, time.Minute))
	assert.True(t, limiter.Allow("apply:1", 2, time.Minute))
	assert.False(t, limiter.Allow("apply:1", 2, time.Minute))
	assert.Equal(t, int64(3), scripter.counts[redisKeyPrefix+"apply:1"])
}

func TestRedisLimiterFallsBackWhenUnavailable(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	limiter := NewRedisLimiter(&fakeScripter{down: true}, NewRateLimiter(), logger)
	assert.True(t, limiter.Allow("register:1.2.3.4", 1, time.Minute))
	assert.False(t, limiter.Allow("register:1.2.3.4", 1, time.Minute))

	assert.Contains(t, logs.String(), "redis rate limiter unavailable")
	assert.Contains(t, logs.String(), "register:1.2.3.4")

	open := NewRedisLimiter(&fakeScripter{down: true}, nil, logger)
	assert.True(t, open.Allow("register:1.2.3.4", 1, time.Minute))
	assert.True(t, open.Allow("register:1.2.3.4", 1, time.Minute))
}
