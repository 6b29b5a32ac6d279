package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/middleware"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// SubscriptionServiceInterface はサブスクリプションハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	GetUserSubscription(ctx context.Context, userID string) (*model.Subscription, error)
	UpdatePlan(ctx context.Context, userID string, planType model.PlanType) (*model.Subscription, error)
}

// SubscriptionHandler はサブスクリプション管理のHTTPハンドラー。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// subscriptionResponse はサブスクリプション情報のAPIレスポンス。
type subscriptionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PlanType  string    `json:"plan_type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsActive  bool      `json:"is_active"`
}

func toSubscriptionResponse(sub *model.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        sub.ID,
		UserID:    sub.UserID,
		PlanType:  string(sub.PlanType),
		StartTime: sub.StartTime,
		EndTime:   sub.EndTime,
		IsActive:  sub.IsActive,
	}
}

// GetUserSubscription は認証済みユーザーのサブスクリプションを返す。
// 有料プランが期限切れの場合、この読み取りでFREEプランに巻き戻される。
// GET /api/subscriptions/user
func (h *SubscriptionHandler) GetUserSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	sub, err := h.service.GetUserSubscription(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}

// UpdateSubscription はプラン変更を処理する。
// PATCH /api/subscriptions/update?planType=
func (h *SubscriptionHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	planTypeParam := r.URL.Query().Get("planType")
	planType, ok := model.ParsePlanType(planTypeParam)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPlanTypeError(planTypeParam))
		return
	}

	sub, err := h.service.UpdatePlan(r.Context(), userID, planType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionResponse(sub))
}
