// Package membership はチーム名簿とチャット名簿の同期管理を提供する。
package membership

import (
	"context"
	"fmt"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// MetricsRecorder はメンバーシップ操作のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordMemberAdded()
	RecordMemberRemoved()
}

// Service はプロジェクトメンバーシップのサービス層。
// チーム名簿（project_members）とチャット名簿（chat_members）は常に
// 揃って更新され、本パッケージ以外は名簿へ書き込まない。
type Service struct {
	memberRepo  repository.MembershipRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	metrics     MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnil可。
func NewService(memberRepo repository.MembershipRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, metrics MetricsRecorder) *Service {
	return &Service{
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		metrics:     metrics,
	}
}

// AddMember はユーザーをプロジェクトのチームと専属チャットの両名簿に追加する。
// 既にメンバーの場合は成功として扱う（冪等）。
func (s *Service) AddMember(ctx context.Context, projectID, userID string) error {
	if err := s.ensureExists(ctx, projectID, userID); err != nil {
		return err
	}

	if err := s.memberRepo.AddMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("メンバーの追加に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMemberAdded()
	}
	return nil
}

// RemoveMember はユーザーを両名簿から削除する。
// メンバーでない場合は成功として扱う（冪等）。
func (s *Service) RemoveMember(ctx context.Context, projectID, userID string) error {
	if err := s.ensureExists(ctx, projectID, userID); err != nil {
		return err
	}

	if err := s.memberRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("メンバーの削除に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMemberRemoved()
	}
	return nil
}

// IsMember はユーザーがプロジェクトのチームに属しているかを返す。
func (s *Service) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	ok, err := s.memberRepo.IsMember(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("メンバーシップの確認に失敗しました: %w", err)
	}
	return ok, nil
}

// ensureExists はプロジェクトとユーザーの存在を確認する。
func (s *Service) ensureExists(ctx context.Context, projectID, userID string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return model.NewProjectNotFoundError(projectID)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	return nil
}
