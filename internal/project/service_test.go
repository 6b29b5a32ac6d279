package project

import (
	"context"
	"errors"
	"testing"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// --- モック ---

type mockProjectRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.Project, error)
	createWithChatFn func(ctx context.Context, project *model.Project, chat *model.Chat) error
	updateFn         func(ctx context.Context, project *model.Project) error
	deleteFn         func(ctx context.Context, projectID, ownerID string) error
	listByMemberFn   func(ctx context.Context, userID string) ([]*model.Project, error)
	searchByNameFn   func(ctx context.Context, keyword, userID string) ([]*model.Project, error)
	listTeamFn       func(ctx context.Context, projectID string) ([]*model.User, error)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockProjectRepo) CreateWithChat(ctx context.Context, project *model.Project, chat *model.Chat) error {
	return m.createWithChatFn(ctx, project, chat)
}
func (m *mockProjectRepo) Update(ctx context.Context, project *model.Project) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, project)
	}
	return nil
}
func (m *mockProjectRepo) Delete(ctx context.Context, projectID, ownerID string) error {
	return m.deleteFn(ctx, projectID, ownerID)
}
func (m *mockProjectRepo) ListByMember(ctx context.Context, userID string) ([]*model.Project, error) {
	return m.listByMemberFn(ctx, userID)
}
func (m *mockProjectRepo) SearchByName(ctx context.Context, keyword, userID string) ([]*model.Project, error) {
	return m.searchByNameFn(ctx, keyword, userID)
}
func (m *mockProjectRepo) ListTeam(ctx context.Context, projectID string) ([]*model.User, error) {
	return m.listTeamFn(ctx, projectID)
}

type mockChatRepo struct {
	findByProjectIDFn func(ctx context.Context, projectID string) (*model.Chat, error)
}

func (m *mockChatRepo) FindByID(ctx context.Context, id string) (*model.Chat, error) {
	return nil, nil
}
func (m *mockChatRepo) FindByProjectID(ctx context.Context, projectID string) (*model.Chat, error) {
	return m.findByProjectIDFn(ctx, projectID)
}
func (m *mockChatRepo) ListMembers(ctx context.Context, chatID string) ([]*model.User, error) {
	return nil, nil
}
func (m *mockChatRepo) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	return false, nil
}

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	addProjectSizeFn func(ctx context.Context, userID string, delta int) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) AddProjectSize(ctx context.Context, userID string, delta int) error {
	if m.addProjectSizeFn != nil {
		return m.addProjectSizeFn(ctx, userID, delta)
	}
	return nil
}

type mockInviter struct {
	sendFn    func(ctx context.Context, email, projectID string) error
	consumeFn func(ctx context.Context, token string) (*model.Invitation, error)
}

func (m *mockInviter) Send(ctx context.Context, email, projectID string) error {
	return m.sendFn(ctx, email, projectID)
}
func (m *mockInviter) Consume(ctx context.Context, token string) (*model.Invitation, error) {
	return m.consumeFn(ctx, token)
}

type mockMemberAdder struct {
	addMemberFn func(ctx context.Context, projectID, userID string) error
}

func (m *mockMemberAdder) AddMember(ctx context.Context, projectID, userID string) error {
	return m.addMemberFn(ctx, projectID, userID)
}

func userRepoWith(id string) *mockUserRepo {
	return &mockUserRepo{
		findByIDFn: func(ctx context.Context, uid string) (*model.User, error) {
			if uid == id {
				return &model.User{ID: uid}, nil
			}
			return nil, nil
		},
	}
}

// --- テスト ---

// TestService_Create はプロジェクトと専属チャットの同時作成を検証する。
func TestService_Create(t *testing.T) {
	var gotProject *model.Project
	var gotChat *model.Chat
	projectRepo := &mockProjectRepo{
		createWithChatFn: func(ctx context.Context, project *model.Project, chat *model.Chat) error {
			gotProject = project
			gotChat = chat
			return nil
		},
	}
	svc := NewService(projectRepo, &mockChatRepo{}, userRepoWith("owner-1"), &mockInviter{}, &mockMemberAdder{})

	created, err := svc.Create(context.Background(), &model.Project{
		Name:     "新規開発",
		Category: "dev",
		Tags:     []string{"go", "api"},
	}, "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %v, want owner-1", created.OwnerID)
	}
	if created.ID == "" {
		t.Error("project ID is empty")
	}
	if gotProject == nil || gotChat == nil {
		t.Fatal("project and chat must be created together")
	}
	if gotChat.ProjectID != gotProject.ID {
		t.Errorf("chat.ProjectID = %v, want %v", gotChat.ProjectID, gotProject.ID)
	}
}

// TestService_List はカテゴリ・タグによる絞り込みを検証する。
func TestService_List(t *testing.T) {
	projects := []*model.Project{
		{ID: "p1", Category: "dev", Tags: []string{"go", "api"}},
		{ID: "p2", Category: "dev", Tags: []string{"frontend"}},
		{ID: "p3", Category: "design", Tags: []string{"go"}},
	}
	projectRepo := &mockProjectRepo{
		listByMemberFn: func(ctx context.Context, userID string) ([]*model.Project, error) {
			return projects, nil
		},
	}
	svc := NewService(projectRepo, &mockChatRepo{}, userRepoWith("user-1"), &mockInviter{}, &mockMemberAdder{})

	tests := []struct {
		name     string
		category string
		tag      string
		wantIDs  []string
	}{
		{name: "フィルタなしは全件", wantIDs: []string{"p1", "p2", "p3"}},
		{name: "カテゴリ完全一致", category: "dev", wantIDs: []string{"p1", "p2"}},
		{name: "タグ包含", tag: "go", wantIDs: []string{"p1", "p3"}},
		{name: "カテゴリとタグはAND", category: "dev", tag: "go", wantIDs: []string{"p1"}},
		{name: "一致なしは空", category: "ops", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(context.Background(), "user-1", tt.category, tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d projects, want %d", len(got), len(tt.wantIDs))
			}
			for i, p := range got {
				if p.ID != tt.wantIDs[i] {
					t.Errorf("projects[%d].ID = %v, want %v", i, p.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

// TestService_Delete_OwnerOnly はオーナーのみが削除できることを検証する。
func TestService_Delete_OwnerOnly(t *testing.T) {
	deleted := false
	projectRepo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			return &model.Project{ID: id, OwnerID: "owner-1"}, nil
		},
		deleteFn: func(ctx context.Context, projectID, ownerID string) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(projectRepo, &mockChatRepo{}, userRepoWith("owner-1"), &mockInviter{}, &mockMemberAdder{})

	// 非オーナーは拒否される
	err := svc.Delete(context.Background(), "proj-1", "intruder")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeNotProjectOwner {
		t.Errorf("error = %v, want NOT_PROJECT_OWNER", err)
	}
	if deleted {
		t.Error("project should not be deleted by a non-owner")
	}

	// オーナーは削除できる
	if err := svc.Delete(context.Background(), "proj-1", "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("project was not deleted")
	}
}

// TestService_AcceptInvitation は招待受諾の一連の流れを検証する。
// トークン消費 → メンバー追加 → projectSize増分の順で行われる。
func TestService_AcceptInvitation(t *testing.T) {
	var addedProject, addedUser string
	var sizeDelta int

	inviter := &mockInviter{
		consumeFn: func(ctx context.Context, token string) (*model.Invitation, error) {
			if token != "tok-1" {
				return nil, model.NewInvitationNotFoundError()
			}
			return &model.Invitation{ID: "inv-1", Email: "dev@example.com", ProjectID: "proj-1", Token: token}, nil
		},
	}
	members := &mockMemberAdder{
		addMemberFn: func(ctx context.Context, projectID, userID string) error {
			addedProject, addedUser = projectID, userID
			return nil
		},
	}
	userRepo := userRepoWith("user-1")
	userRepo.addProjectSizeFn = func(ctx context.Context, userID string, delta int) error {
		sizeDelta += delta
		return nil
	}

	svc := NewService(&mockProjectRepo{}, &mockChatRepo{}, userRepo, inviter, members)

	inv, err := svc.AcceptInvitation(context.Background(), "tok-1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ProjectID != "proj-1" {
		t.Errorf("invitation.ProjectID = %v, want proj-1", inv.ProjectID)
	}
	if addedProject != "proj-1" || addedUser != "user-1" {
		t.Errorf("AddMember(%v, %v), want (proj-1, user-1)", addedProject, addedUser)
	}
	if sizeDelta != 1 {
		t.Errorf("projectSize delta = %d, want 1", sizeDelta)
	}
}

// TestService_AcceptInvitation_ConsumedToken は消費済みトークンの再受諾を検証する。
func TestService_AcceptInvitation_ConsumedToken(t *testing.T) {
	inviter := &mockInviter{
		consumeFn: func(ctx context.Context, token string) (*model.Invitation, error) {
			return nil, model.NewInvitationNotFoundError()
		},
	}
	members := &mockMemberAdder{
		addMemberFn: func(ctx context.Context, projectID, userID string) error {
			t.Error("AddMember should not be called for a consumed token")
			return nil
		},
	}
	svc := NewService(&mockProjectRepo{}, &mockChatRepo{}, userRepoWith("user-1"), inviter, members)

	_, err := svc.AcceptInvitation(context.Background(), "used-token", "user-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvitationNotFound {
		t.Errorf("error = %v, want INVITATION_NOT_FOUND", err)
	}
}

// TestService_AcceptInvitation_UnknownUser は未知のユーザーによる受諾を検証する。
// トークンは消費されない。
func TestService_AcceptInvitation_UnknownUser(t *testing.T) {
	inviter := &mockInviter{
		consumeFn: func(ctx context.Context, token string) (*model.Invitation, error) {
			t.Error("Consume should not be called for an unknown user")
			return nil, nil
		},
	}
	svc := NewService(&mockProjectRepo{}, &mockChatRepo{}, userRepoWith("user-1"), inviter, &mockMemberAdder{})

	_, err := svc.AcceptInvitation(context.Background(), "tok-1", "ghost")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_Invite は招待送信前のプロジェクト存在確認を検証する。
func TestService_Invite(t *testing.T) {
	sent := false
	projectRepo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			if id == "proj-1" {
				return &model.Project{ID: id}, nil
			}
			return nil, nil
		},
	}
	inviter := &mockInviter{
		sendFn: func(ctx context.Context, email, projectID string) error {
			sent = true
			return nil
		},
	}
	svc := NewService(projectRepo, &mockChatRepo{}, userRepoWith("user-1"), inviter, &mockMemberAdder{})

	if err := svc.Invite(context.Background(), "dev@example.com", "proj-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sent {
		t.Error("invitation was not sent")
	}

	err := svc.Invite(context.Background(), "dev@example.com", "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("error = %v, want PROJECT_NOT_FOUND", err)
	}
}

// TestService_Update はオーナー確認なしの更新を検証する。
func TestService_Update(t *testing.T) {
	projectRepo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			return &model.Project{ID: id, Name: "旧名称", OwnerID: "owner-1"}, nil
		},
	}
	svc := NewService(projectRepo, &mockChatRepo{}, userRepoWith("user-1"), &mockInviter{}, &mockMemberAdder{})

	updated, err := svc.Update(context.Background(), "proj-1", &model.Project{
		Name: "新名称",
		Tags: []string{"v2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "新名称" {
		t.Errorf("Name = %v, want 新名称", updated.Name)
	}
	if updated.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %v, owner must not change", updated.OwnerID)
	}
}

// TestService_GetChat はプロジェクト専属チャットの取得を検証する。
func TestService_GetChat(t *testing.T) {
	projectRepo := &mockProjectRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Project, error) {
			if id == "proj-1" {
				return &model.Project{ID: id}, nil
			}
			return nil, nil
		},
	}
	chatRepo := &mockChatRepo{
		findByProjectIDFn: func(ctx context.Context, projectID string) (*model.Chat, error) {
			return &model.Chat{ID: "chat-1", ProjectID: projectID}, nil
		},
	}
	svc := NewService(projectRepo, chatRepo, userRepoWith("user-1"), &mockInviter{}, &mockMemberAdder{})

	chat, err := svc.GetChat(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chat.ID != "chat-1" {
		t.Errorf("chat.ID = %v, want chat-1", chat.ID)
	}

	_, err = svc.GetChat(context.Background(), "missing")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeProjectNotFound {
		t.Errorf("error = %v, want PROJECT_NOT_FOUND", err)
	}
}
