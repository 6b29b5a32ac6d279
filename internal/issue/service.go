// Package issue は課題の管理を提供する。
package issue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// Service は課題のサービス層。
type Service struct {
	issueRepo   repository.IssueRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(issueRepo repository.IssueRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		issueRepo:   issueRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Create はプロジェクトに課題を作成する。
func (s *Service) Create(ctx context.Context, draft *model.Issue) (*model.Issue, error) {
	project, err := s.projectRepo.FindByID(ctx, draft.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(draft.ProjectID)
	}

	now := time.Now()
	issue := &model.Issue{
		ID:          uuid.NewString(),
		ProjectID:   draft.ProjectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		AssigneeID:  draft.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("課題の作成に失敗しました: %w", err)
	}

	return issue, nil
}

// GetByID は指定IDの課題を取得する。
func (s *Service) GetByID(ctx context.Context, issueID string) (*model.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("課題の取得に失敗しました: %w", err)
	}
	if issue == nil {
		return nil, model.NewIssueNotFoundError(issueID)
	}
	return issue, nil
}

// ListByProject はプロジェクトの課題一覧を返す。
func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*model.Issue, error) {
	issues, err := s.issueRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("課題一覧の取得に失敗しました: %w", err)
	}
	return issues, nil
}

// Delete は指定IDの課題を削除する。
func (s *Service) Delete(ctx context.Context, issueID string) error {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return fmt.Errorf("課題の取得に失敗しました: %w", err)
	}
	if issue == nil {
		return model.NewIssueNotFoundError(issueID)
	}

	if err := s.issueRepo.Delete(ctx, issueID); err != nil {
		return fmt.Errorf("課題の削除に失敗しました: %w", err)
	}
	return nil
}

// AssignUser は課題に担当者を設定する。
func (s *Service) AssignUser(ctx context.Context, issueID, userID string) (*model.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("課題の取得に失敗しました: %w", err)
	}
	if issue == nil {
		return nil, model.NewIssueNotFoundError(issueID)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if err := s.issueRepo.UpdateAssignee(ctx, issueID, userID); err != nil {
		return nil, fmt.Errorf("担当者の更新に失敗しました: %w", err)
	}

	issue.AssigneeID = &userID
	return issue, nil
}

// UpdateStatus は課題のステータスを更新する。
func (s *Service) UpdateStatus(ctx context.Context, issueID, status string) (*model.Issue, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("課題の取得に失敗しました: %w", err)
	}
	if issue == nil {
		return nil, model.NewIssueNotFoundError(issueID)
	}

	if err := s.issueRepo.UpdateStatus(ctx, issueID, status); err != nil {
		return nil, fmt.Errorf("ステータスの更新に失敗しました: %w", err)
	}

	issue.Status = status
	return issue, nil
}
