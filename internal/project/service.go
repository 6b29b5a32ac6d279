// Package project はプロジェクトのライフサイクルと招待受諾のオーケストレーションを提供する。
package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// Inviter は招待トークンの発行・消費インターフェース。
// 実装はinvitationパッケージが提供する。
type Inviter interface {
	Send(ctx context.Context, email, projectID string) error
	Consume(ctx context.Context, token string) (*model.Invitation, error)
}

// MemberAdder はプロジェクトへのメンバー追加インターフェース。
// 実装はmembershipパッケージが提供する。
type MemberAdder interface {
	AddMember(ctx context.Context, projectID, userID string) error
}

// Service はプロジェクトのサービス層。
type Service struct {
	projectRepo repository.ProjectRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	inviter     Inviter
	members     MemberAdder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(projectRepo repository.ProjectRepository, chatRepo repository.ChatRepository, userRepo repository.UserRepository, inviter Inviter, members MemberAdder) *Service {
	return &Service{
		projectRepo: projectRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		inviter:     inviter,
		members:     members,
	}
}

// Create はプロジェクトと専属チャットを作成する。
// 作成直後のチーム名簿はオーナー1人のみで、チャット名簿と一致する。
func (s *Service) Create(ctx context.Context, draft *model.Project, ownerID string) (*model.Project, error) {
	now := time.Now()
	project := &model.Project{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		Category:    draft.Category,
		Tags:        draft.Tags,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	chat := &model.Chat{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		CreatedAt: now,
	}

	if err := s.projectRepo.CreateWithChat(ctx, project, chat); err != nil {
		return nil, fmt.Errorf("プロジェクトの作成に失敗しました: %w", err)
	}

	return project, nil
}

// GetByID は指定IDのプロジェクトを取得する。
func (s *Service) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}
	return project, nil
}

// List はユーザーが所有または参加しているプロジェクト一覧を返す。
// categoryは完全一致、tagはタグ配列への包含でフィルタする（両方指定時はAND）。
// 空文字のフィルタは無視される。
func (s *Service) List(ctx context.Context, userID, category, tag string) ([]*model.Project, error) {
	projects, err := s.projectRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}

	if category == "" && tag == "" {
		return projects, nil
	}

	filtered := make([]*model.Project, 0, len(projects))
	for _, p := range projects {
		if category != "" && p.Category != category {
			continue
		}
		if tag != "" && !containsTag(p.Tags, tag) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Search はユーザーのプロジェクトを名前の部分一致で検索する。
func (s *Service) Search(ctx context.Context, keyword, userID string) ([]*model.Project, error) {
	projects, err := s.projectRepo.SearchByName(ctx, keyword, userID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの検索に失敗しました: %w", err)
	}
	return projects, nil
}

// Update はプロジェクトの名前・説明・タグを更新する。
// 呼び出し元が認証済みであれば実行でき、オーナー確認は行わない。
func (s *Service) Update(ctx context.Context, projectID string, draft *model.Project) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	project.Name = draft.Name
	project.Description = draft.Description
	project.Tags = draft.Tags
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("プロジェクトの更新に失敗しました: %w", err)
	}

	return project, nil
}

// Delete はプロジェクトを削除する。オーナーのみ実行できる。
// チャット・メッセージ・課題・招待は連鎖して削除される。
func (s *Service) Delete(ctx context.Context, projectID, userID string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return model.NewProjectNotFoundError(projectID)
	}
	if project.OwnerID != userID {
		return model.NewNotProjectOwnerError()
	}

	if err := s.projectRepo.Delete(ctx, projectID, project.OwnerID); err != nil {
		return fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}

	return nil
}

// ListTeam はプロジェクトのチーム名簿を返す。
func (s *Service) ListTeam(ctx context.Context, projectID string) ([]*model.User, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	team, err := s.projectRepo.ListTeam(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("チーム名簿の取得に失敗しました: %w", err)
	}
	return team, nil
}

// GetChat はプロジェクトの専属チャットを返す。
func (s *Service) GetChat(ctx context.Context, projectID string) (*model.Chat, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(projectID)
	}

	chat, err := s.chatRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}
	if chat == nil {
		return nil, model.NewChatNotFoundError(projectID)
	}
	return chat, nil
}

// Invite はプロジェクトへの招待メールを送信する。
// 招待トークンは配送の前に永続化されるため、配送失敗後も再送できる。
func (s *Service) Invite(ctx context.Context, email, projectID string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return model.NewProjectNotFoundError(projectID)
	}

	return s.inviter.Send(ctx, email, projectID)
}

// AcceptInvitation は招待トークンを消費し、受諾したユーザーをプロジェクトの
// チームと専属チャットに追加する。トークンの消費はアトミックな
// check-and-deleteで行われ、同一トークンの競合する受諾は高々1つだけ成功する。
func (s *Service) AcceptInvitation(ctx context.Context, token, userID string) (*model.Invitation, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	inv, err := s.inviter.Consume(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.members.AddMember(ctx, inv.ProjectID, userID); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddProjectSize(ctx, userID, 1); err != nil {
		return nil, fmt.Errorf("参加プロジェクト数の更新に失敗しました: %w", err)
	}

	return inv, nil
}
