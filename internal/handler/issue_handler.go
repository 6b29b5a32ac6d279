package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// IssueServiceInterface は課題ハンドラーが必要とするサービスインターフェース。
type IssueServiceInterface interface {
	Create(ctx context.Context, draft *model.Issue) (*model.Issue, error)
	GetByID(ctx context.Context, issueID string) (*model.Issue, error)
	ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error)
	Delete(ctx context.Context, issueID string) error
	AssignUser(ctx context.Context, issueID, userID string) (*model.Issue, error)
	UpdateStatus(ctx context.Context, issueID, status string) (*model.Issue, error)
}

// IssueHandler は課題管理のHTTPハンドラー。
type IssueHandler struct {
	service IssueServiceInterface
}

// NewIssueHandler はIssueHandlerを生成する。
func NewIssueHandler(service IssueServiceInterface) *IssueHandler {
	return &IssueHandler{service: service}
}

// createIssueRequest は課題作成リクエストのボディ。
type createIssueRequest struct {
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
}

// issueResponse は課題情報のAPIレスポンス。
type issueResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toIssueResponse(issue *model.Issue) issueResponse {
	return issueResponse{
		ID:          issue.ID,
		ProjectID:   issue.ProjectID,
		Title:       issue.Title,
		Description: issue.Description,
		Status:      issue.Status,
		Priority:    issue.Priority,
		DueDate:     issue.DueDate,
		AssigneeID:  issue.AssigneeID,
		CreatedAt:   issue.CreatedAt,
	}
}

// CreateIssue は課題作成を処理する。
// POST /api/issues
func (h *IssueHandler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.ProjectID == "" || req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "project_idとtitleは必須です。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	issue, err := h.service.Create(r.Context(), &model.Issue{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toIssueResponse(issue))
}

// GetIssue は課題詳細を返す。
// GET /api/issues/{id}
func (h *IssueHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "id")

	issue, err := h.service.GetByID(r.Context(), issueID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(issue))
}

// ListProjectIssues はプロジェクトの課題一覧を返す。
// GET /api/issues/projects/{projectId}
func (h *IssueHandler) ListProjectIssues(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")

	issues, err := h.service.ListByProject(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		res = append(res, toIssueResponse(issue))
	}

	writeJSON(w, http.StatusOK, res)
}

// DeleteIssue は課題を削除する。
// DELETE /api/issues/{id}
func (h *IssueHandler) DeleteIssue(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), issueID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "課題を削除しました。"})
}

// AssignIssue は課題に担当者を設定する。
// POST /api/issues/{id}/assignee/{userId}
func (h *IssueHandler) AssignIssue(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	issue, err := h.service.AssignUser(r.Context(), issueID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(issue))
}

// UpdateIssueStatus は課題のステータスを更新する。
// PUT /api/issues/{id}/status/{status}
func (h *IssueHandler) UpdateIssueStatus(w http.ResponseWriter, r *http.Request) {
	issueID := chi.URLParam(r, "id")
	status := chi.URLParam(r, "status")

	issue, err := h.service.UpdateStatus(r.Context(), issueID, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIssueResponse(issue))
}
