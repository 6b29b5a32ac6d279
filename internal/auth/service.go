// Package auth はユーザー認証（サインアップ・サインイン）とJWT管理を提供する。
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// SubscriptionCreator はサインアップ時のFREEサブスクリプション作成インターフェース。
// 実装はentitlementパッケージが提供する。
type SubscriptionCreator interface {
	CreateSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

// Service は認証のサービス層。
type Service struct {
	userRepo repository.UserRepository
	subs     SubscriptionCreator
	tokens   *TokenManager
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, subs SubscriptionCreator, tokens *TokenManager) *Service {
	return &Service{
		userRepo: userRepo,
		subs:     subs,
		tokens:   tokens,
	}
}

// Signup は新規ユーザーを作成し、FREEサブスクリプションを付与して
// アクセストークンを発行する。登録済みメールアドレスの場合は
// DUPLICATE_EMAILを返す。
func (s *Service) Signup(ctx context.Context, email, fullName, password string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewDuplicateEmailError(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		ProjectSize:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	if _, err := s.subs.CreateSubscription(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Signin は資格情報を検証し、アクセストークンを発行する。
// メールアドレスの存在有無を漏らさないよう、失敗理由は区別しない。
func (s *Service) Signin(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetProfile はユーザーのプロフィールを取得する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// UpdateProfile はユーザーの表示名と所属プロジェクト数を更新する。
// メールアドレスとパスワードはこの操作では変更できない。
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName string, projectSize int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	user.FullName = fullName
	user.ProjectSize = projectSize
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	return user, nil
}
