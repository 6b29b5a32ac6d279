package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/metrics"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         *metrics.Collector
	Gatherer          prometheus.Gatherer

	// サービス
	AuthService         AuthServiceInterface
	ProjectService      ProjectServiceInterface
	SubscriptionService SubscriptionServiceInterface
	IssueService        IssueServiceInterface
	ChatService         ChatServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Logging → (保護ルートのみ) Auth → RateLimit(General)
//
// 認証ルート（/auth/*）、/health、/metricsはミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	// Collectorがnilのままinterfaceに包まれると非nil扱いになるため明示的に分岐する
	var statusRec middleware.StatusRecorder
	if deps.Collector != nil {
		statusRec = deps.Collector
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, statusRec))

	authHandler := NewAuthHandler(deps.AuthService)
	projectHandler := NewProjectHandler(deps.ProjectService)
	subHandler := NewSubscriptionHandler(deps.SubscriptionService)
	issueHandler := NewIssueHandler(deps.IssueService)
	messageHandler := NewMessageHandler(deps.ChatService)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー
		r.Get("/api/users/profile", authHandler.Profile)
		r.Put("/api/users/profile", authHandler.UpdateProfile)

		// プロジェクト管理
		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)
			r.Get("/search", projectHandler.SearchProjects)

			// 招待送信（送信専用レート制限を追加）
			r.With(deps.RateLimiter.InviteMiddleware()).Post("/invite", projectHandler.Invite)
			r.Get("/accept_invitation", projectHandler.AcceptInvitation)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Patch("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
				r.Get("/chat", projectHandler.GetProjectChat)
			})
		})

		// サブスクリプション管理
		r.Route("/api/subscriptions", func(r chi.Router) {
			r.Get("/user", subHandler.GetUserSubscription)
			r.Patch("/update", subHandler.UpdateSubscription)
		})

		// 課題管理
		r.Route("/api/issues", func(r chi.Router) {
			r.Post("/", issueHandler.CreateIssue)
			r.Get("/projects/{projectId}", issueHandler.ListProjectIssues)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", issueHandler.GetIssue)
				r.Delete("/", issueHandler.DeleteIssue)
				r.Post("/assignee/{userId}", issueHandler.AssignIssue)
				r.Put("/status/{status}", issueHandler.UpdateIssueStatus)
			})
		})

		// チャットメッセージ
		r.Route("/api/messages", func(r chi.Router) {
			r.Post("/", messageHandler.SendMessage)
			r.Get("/chat/{chatId}", messageHandler.ListChatMessages)
		})
	})

	return r
}
