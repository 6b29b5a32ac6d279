package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// mockIssueService はIssueServiceInterfaceのモック実装。
type mockIssueService struct {
	createFn        func(ctx context.Context, draft *model.Issue) (*model.Issue, error)
	getByIDFn       func(ctx context.Context, issueID string) (*model.Issue, error)
	listByProjectFn func(ctx context.Context, projectID string) ([]*model.Issue, error)
	deleteFn        func(ctx context.Context, issueID string) error
	assignUserFn    func(ctx context.Context, issueID, userID string) (*model.Issue, error)
	updateStatusFn  func(ctx context.Context, issueID, status string) (*model.Issue, error)
}

func (m *mockIssueService) Create(ctx context.Context, draft *model.Issue) (*model.Issue, error) {
	return m.createFn(ctx, draft)
}
func (m *mockIssueService) GetByID(ctx context.Context, issueID string) (*model.Issue, error) {
	return m.getByIDFn(ctx, issueID)
}
func (m *mockIssueService) ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error) {
	return m.listByProjectFn(ctx, projectID)
}
func (m *mockIssueService) Delete(ctx context.Context, issueID string) error {
	return m.deleteFn(ctx, issueID)
}
func (m *mockIssueService) AssignUser(ctx context.Context, issueID, userID string) (*model.Issue, error) {
	return m.assignUserFn(ctx, issueID, userID)
}
func (m *mockIssueService) UpdateStatus(ctx context.Context, issueID, status string) (*model.Issue, error) {
	return m.updateStatusFn(ctx, issueID, status)
}

func TestIssueHandler_CreateIssue_Success(t *testing.T) {
	svc := &mockIssueService{
		createFn: func(ctx context.Context, draft *model.Issue) (*model.Issue, error) {
			draft.ID = "issue-1"
			return draft, nil
		},
	}
	h := NewIssueHandler(svc)

	body, _ := json.Marshal(map[string]string{
		"project_id": "proj-1",
		"title":      "ログイン画面のバグ修正",
		"priority":   "HIGH",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/issues", bytes.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.CreateIssue(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["title"] != "ログイン画面のバグ修正" {
		t.Errorf("title = %v", result["title"])
	}
}

func TestIssueHandler_CreateIssue_MissingTitle(t *testing.T) {
	h := NewIssueHandler(&mockIssueService{})

	body, _ := json.Marshal(map[string]string{"project_id": "proj-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/issues", bytes.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.CreateIssue(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestIssueHandler_GetIssue_NotFound(t *testing.T) {
	svc := &mockIssueService{
		getByIDFn: func(ctx context.Context, issueID string) (*model.Issue, error) {
			return nil, model.NewIssueNotFoundError(issueID)
		},
	}
	h := NewIssueHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/issues/missing", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.GetIssue(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestIssueHandler_AssignIssue(t *testing.T) {
	svc := &mockIssueService{
		assignUserFn: func(ctx context.Context, issueID, userID string) (*model.Issue, error) {
			return &model.Issue{ID: issueID, ProjectID: "proj-1", Title: "t", AssigneeID: &userID}, nil
		},
	}
	h := NewIssueHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/issues/issue-1/assignee/user-2", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "issue-1")
	req = withChiURLParam(req, "userId", "user-2")
	w := httptest.NewRecorder()

	h.AssignIssue(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["assignee_id"] != "user-2" {
		t.Errorf("assignee_id = %v, want user-2", result["assignee_id"])
	}
}

func TestIssueHandler_UpdateIssueStatus(t *testing.T) {
	svc := &mockIssueService{
		updateStatusFn: func(ctx context.Context, issueID, status string) (*model.Issue, error) {
			return &model.Issue{ID: issueID, ProjectID: "proj-1", Title: "t", Status: status}, nil
		},
	}
	h := NewIssueHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/issues/issue-1/status/DONE", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "id", "issue-1")
	req = withChiURLParam(req, "status", "DONE")
	w := httptest.NewRecorder()

	h.UpdateIssueStatus(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["status"] != "DONE" {
		t.Errorf("status = %v, want DONE", result["status"])
	}
}
