// Package invitation は招待トークンの発行・解決・取り消しを提供する。
package invitation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// Mailer は招待メールの送信インターフェース。
// テンプレートやSMTPの詳細は実装側（SendGrid等）に閉じる。
type Mailer interface {
	// Send はメールを1通送信する。配送失敗はエラーで返す。
	Send(ctx context.Context, toAddress, subject, body string) error
}

// MetricsRecorder は招待フローのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordInvitationSent()
	RecordInvitationDeliveryFailure()
	RecordInvitationRedeemed()
}

// Service は招待のサービス層。
// トークンの発行（Issuer）と解決（Redeemer）の両方を提供する。
type Service struct {
	invRepo   repository.InvitationRepository
	mailer    Mailer
	metrics   MetricsRecorder
	acceptURL string
}

// NewService はServiceの新しいインスタンスを生成する。
// acceptURLは招待メールに埋め込む受諾ページのURL。metricsはnil可。
func NewService(invRepo repository.InvitationRepository, mailer Mailer, metrics MetricsRecorder, acceptURL string) *Service {
	return &Service{
		invRepo:   invRepo,
		mailer:    mailer,
		metrics:   metrics,
		acceptURL: acceptURL,
	}
}

// Send は招待トークンを発行し、招待メールを送信する。
// トークンはUUID（128bit）で、衝突確率は無視できるため再試行は行わない。
// 配送失敗でトークンを失わないよう、招待行はメール送信の前に永続化する。
// 配送に失敗した場合は招待行を残したままDELIVERY_FAILEDを返すので、
// 呼び出し元は失敗を検知でき、TokenForEmailによる再送も可能。
func (s *Service) Send(ctx context.Context, email, projectID string) error {
	token := uuid.NewString()

	inv := &model.Invitation{
		ID:        uuid.NewString(),
		Email:     email,
		ProjectID: projectID,
		Token:     token,
		CreatedAt: time.Now(),
	}

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return fmt.Errorf("招待の永続化に失敗しました: %w", err)
	}

	link := fmt.Sprintf("%s?token=%s", s.acceptURL, token)
	subject := "プロジェクトへの招待"
	body := fmt.Sprintf("以下のリンクからプロジェクトに参加してください。\n\n%s\n", link)

	if err := s.mailer.Send(ctx, email, subject, body); err != nil {
		if s.metrics != nil {
			s.metrics.RecordInvitationDeliveryFailure()
		}
		return model.NewDeliveryFailedError(err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordInvitationSent()
	}
	return nil
}

// Redeem はトークンを招待に解決する。招待は削除しない純粋な検索。
// 見つからない場合はINVITATION_NOT_FOUNDを返す。
func (s *Service) Redeem(ctx context.Context, token string) (*model.Invitation, error) {
	inv, err := s.invRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("招待の取得に失敗しました: %w", err)
	}
	if inv == nil {
		return nil, model.NewInvitationNotFoundError()
	}
	return inv, nil
}

// Consume はトークンをアトミックに解決して消費する（1回限りの保証）。
// 同一トークンで競合した場合は高々1つの呼び出しだけが成功し、他は
// INVITATION_NOT_FOUNDを受け取る。
func (s *Service) Consume(ctx context.Context, token string) (*model.Invitation, error) {
	inv, err := s.invRepo.ConsumeByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("招待の消費に失敗しました: %w", err)
	}
	if inv == nil {
		return nil, model.NewInvitationNotFoundError()
	}
	if s.metrics != nil {
		s.metrics.RecordInvitationRedeemed()
	}
	return inv, nil
}

// TokenForEmail は宛先メールアドレスに対する未消費トークンを返す。
// 再送や照会フローで使用する。見つからない場合はINVITATION_NOT_FOUNDを返す。
func (s *Service) TokenForEmail(ctx context.Context, email string) (string, error) {
	inv, err := s.invRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("招待の検索に失敗しました: %w", err)
	}
	if inv == nil {
		return "", model.NewInvitationNotFoundError()
	}
	return inv.Token, nil
}

// Revoke はトークンを無条件に取り消す。
// 存在しないトークンの取り消しはエラーにならない（冪等）。
func (s *Service) Revoke(ctx context.Context, token string) error {
	if err := s.invRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("招待の取り消しに失敗しました: %w", err)
	}
	return nil
}
