package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/metrics"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/middleware"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// stubVerifier は固定トークンのみ受け付けるTokenVerifier。
type stubVerifier struct{}

func (stubVerifier) Verify(tokenString string) (string, error) {
	if tokenString != "valid-token" {
		return "", fmt.Errorf("invalid token")
	}
	return "user-1", nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 10))
	t.Cleanup(rl.Stop)

	reg := prometheus.NewRegistry()

	return NewRouter(&RouterDeps{
		TokenVerifier:     stubVerifier{},
		CORSAllowedOrigin: "*",
		RateLimiter:       rl,
		Collector:         metrics.NewCollector(reg),
		Gatherer:          reg,
		AuthService: &mockAuthService{
			getProfileFn: func(ctx context.Context, userID string) (*model.User, error) {
				return &model.User{ID: userID, Email: "dev@example.com"}, nil
			},
		},
		ProjectService: &mockProjectService{
			listFn: func(ctx context.Context, userID, category, tag string) ([]*model.Project, error) {
				return []*model.Project{}, nil
			},
		},
		SubscriptionService: &mockSubscriptionService{},
		IssueService:        &mockIssueService{},
		ChatService:         &mockChatService{},
	})
}

func TestNewRouter_HealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestNewRouter_ProtectedRouteRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /api/users/profile without token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestNewRouter_ProtectedRouteWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /api/projects status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestNewRouter_Preflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
