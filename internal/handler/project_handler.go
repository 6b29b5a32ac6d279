package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/middleware"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	Create(ctx context.Context, draft *model.Project, ownerID string) (*model.Project, error)
	GetByID(ctx context.Context, projectID string) (*model.Project, error)
	List(ctx context.Context, userID, category, tag string) ([]*model.Project, error)
	Search(ctx context.Context, keyword, userID string) ([]*model.Project, error)
	Update(ctx context.Context, projectID string, draft *model.Project) (*model.Project, error)
	Delete(ctx context.Context, projectID, userID string) error
	ListTeam(ctx context.Context, projectID string) ([]*model.User, error)
	GetChat(ctx context.Context, projectID string) (*model.Chat, error)
	Invite(ctx context.Context, email, projectID string) error
	AcceptInvitation(ctx context.Context, token, userID string) (*model.Invitation, error)
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// projectRequest はプロジェクト作成・更新リクエストのボディ。
type projectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// inviteRequest は招待送信リクエストのボディ。
type inviteRequest struct {
	Email     string `json:"email"`
	ProjectID string `json:"projectId"`
}

// projectResponse はプロジェクト情報のAPIレスポンス。
type projectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	OwnerID     string         `json:"owner_id"`
	Team        []userResponse `json:"team,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// chatResponse はチャット情報のAPIレスポンス。
type chatResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// invitationResponse は招待情報のAPIレスポンス。トークンは返さない。
type invitationResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	ProjectID string `json:"project_id"`
}

func toProjectResponse(project *model.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Category:    project.Category,
		Tags:        project.Tags,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
	}
}

func toProjectListResponse(projects []*model.Project) []projectResponse {
	res := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		res = append(res, toProjectResponse(p))
	}
	return res
}

// ListProjects は認証済みユーザーのプロジェクト一覧を返す。
// GET /api/projects?category=&tag=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	category := r.URL.Query().Get("category")
	tag := r.URL.Query().Get("tag")

	projects, err := h.service.List(r.Context(), userID, category, tag)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectListResponse(projects))
}

// CreateProject はプロジェクト作成を処理する。
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "プロジェクト名は必須です。",
			Category: "validation",
			Action:   "nameを指定してください。",
		})
		return
	}

	project, err := h.service.Create(r.Context(), &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	}, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// SearchProjects は名前の部分一致でプロジェクトを検索する。
// GET /api/projects/search?keyword=
func (h *ProjectHandler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	keyword := r.URL.Query().Get("keyword")

	projects, err := h.service.Search(r.Context(), keyword, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectListResponse(projects))
}

// GetProject はプロジェクト詳細をチーム名簿付きで返す。
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	project, err := h.service.GetByID(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	team, err := h.service.ListTeam(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := toProjectResponse(project)
	res.Team = make([]userResponse, 0, len(team))
	for _, u := range team {
		res.Team = append(res.Team, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, res)
}

// UpdateProject はプロジェクトの名前・説明・タグを更新する。
// PATCH /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	project, err := h.service.Update(r.Context(), projectID, &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// DeleteProject はプロジェクトを削除する。オーナーのみ実行できる。
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	projectID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), projectID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "プロジェクトを削除しました。"})
}

// GetProjectChat はプロジェクトの専属チャットを返す。
// GET /api/projects/{id}/chat
func (h *ProjectHandler) GetProjectChat(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	chat, err := h.service.GetChat(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ID:        chat.ID,
		ProjectID: chat.ProjectID,
		CreatedAt: chat.CreatedAt,
	})
}

// Invite はプロジェクトへの招待メール送信を処理する。
// POST /api/projects/invite
func (h *ProjectHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.Email == "" || req.ProjectID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "emailとprojectIdは必須です。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	if err := h.service.Invite(r.Context(), req.Email, req.ProjectID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "招待メールを送信しました。"})
}

// AcceptInvitation は招待トークンの受諾を処理する。
// 受諾に成功するとトークンは消費され、同じトークンの再受諾は404になる。
// GET /api/projects/accept_invitation?token=
func (h *ProjectHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "tokenは必須です。",
			Category: "validation",
			Action:   "招待メールのリンクからアクセスしてください。",
		})
		return
	}

	inv, err := h.service.AcceptInvitation(r.Context(), token, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, invitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		ProjectID: inv.ProjectID,
	})
}
