package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiter(generalBurst, inviteBurst int) *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    generalBurst,
		InviteRate:      rate.Limit(1.0 / 60.0),
		InviteBurst:     inviteBurst,
		CleanupInterval: time.Minute,
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_GeneralMiddleware_AllowsWithinBurst(t *testing.T) {
	rl := testRateLimiter(3, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := withUserIDForTest(httptest.NewRequest(http.MethodGet, "/api/projects", nil), "user-1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	// バーストを超えると429
	req := withUserIDForTest(httptest.NewRequest(http.MethodGet, "/api/projects", nil), "user-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header is missing")
	}
}

func TestRateLimiter_PerUserIsolation(t *testing.T) {
	rl := testRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	// user-1がバーストを使い切る
	req := withUserIDForTest(httptest.NewRequest(http.MethodGet, "/", nil), "user-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = withUserIDForTest(httptest.NewRequest(http.MethodGet, "/", nil), "user-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("user-1 second request: status = %d, want 429", w.Code)
	}

	// user-2は影響を受けない
	req = withUserIDForTest(httptest.NewRequest(http.MethodGet, "/", nil), "user-2")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("user-2 request: status = %d, want 200", w.Code)
	}
}

func TestRateLimiter_InviteIndependentOfGeneral(t *testing.T) {
	rl := testRateLimiter(1, 1)
	defer rl.Stop()

	general := rl.GeneralMiddleware()(okHandler())
	invite := rl.InviteMiddleware()(okHandler())

	// 一般APIのバーストを使い切る
	req := withUserIDForTest(httptest.NewRequest(http.MethodGet, "/", nil), "user-1")
	general.ServeHTTP(httptest.NewRecorder(), req)

	// 招待送信は独立したバケットなのでまだ通る
	req = withUserIDForTest(httptest.NewRequest(http.MethodPost, "/api/projects/invite", nil), "user-1")
	w := httptest.NewRecorder()
	invite.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("invite request: status = %d, want 200", w.Code)
	}

	if rl.LimiterCount(limitKindGeneral) != 1 || rl.LimiterCount(limitKindInvite) != 1 {
		t.Errorf("limiter counts = (%d, %d), want (1, 1)",
			rl.LimiterCount(limitKindGeneral), rl.LimiterCount(limitKindInvite))
	}
}

func TestRateLimiter_Unauthenticated(t *testing.T) {
	rl := testRateLimiter(1, 1)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func withUserIDForTest(r *http.Request, userID string) *http.Request {
	return r.WithContext(ContextWithUserID(r.Context(), userID))
}
