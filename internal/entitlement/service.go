// Package entitlement はサブスクリプションの有効性判定とプラン管理を提供する。
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// freeWindowMonths はFREEプランの名目上の有効期間（月数）。
// FREEプランは期限切れ判定の対象外だが、有効期間は常に設定される。
const freeWindowMonths = 3

// Evaluate はサブスクリプションが指定時刻において有効かを判定する純粋関数。
// 永続化への副作用を持たないため、期限切れ時の巻き戻し（Reconcile）とは
// 独立にテストできる。
//   - FREEプランは常に有効。
//   - 有料プランはstart_timeが未来（開始待ち）なら有効。プラン変更直後は
//     start_timeだけが未来に進み、end_timeが旧ウィンドウのまま残るため、
//     end_time <= start_timeの形も開始待ちとして有効に扱う。
//   - それ以外はnowがend_timeを過ぎていない場合のみ有効。
func Evaluate(sub *model.Subscription, now time.Time) bool {
	if sub.PlanType == model.PlanFree {
		return true
	}
	if !sub.EndTime.After(sub.StartTime) || now.Before(sub.StartTime) {
		return true
	}
	return !now.After(sub.EndTime)
}

// Service はサブスクリプションのサービス層。
type Service struct {
	subRepo repository.SubscriptionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(subRepo repository.SubscriptionRepository) *Service {
	return &Service{subRepo: subRepo}
}

// CreateSubscription はユーザーのFREEサブスクリプションを作成する。
// ユーザー作成時に1回だけ呼ばれる。以降の欠損は致命的な参照エラーであり、
// 遅延作成は行わない。
func (s *Service) CreateSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	now := time.Now()
	sub := &model.Subscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		PlanType:  model.PlanFree,
		StartTime: now,
		EndTime:   now.AddDate(0, freeWindowMonths, 0),
		IsActive:  true,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("サブスクリプションの作成に失敗しました: %w", err)
	}
	return sub, nil
}

// GetUserSubscription はユーザーのサブスクリプションを取得する。
// 有料プランが期限切れの場合、読み取り時点でFREEプランに巻き戻して永続化する
// （遅延ダウングレード）。この読み取りは状態を変更しうる。
func (s *Service) GetUserSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}
	if sub == nil {
		return nil, model.NewSubscriptionNotFoundError(userID)
	}

	if !Evaluate(sub, time.Now()) {
		if err := s.reconcile(ctx, sub); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

// reconcile は期限切れサブスクリプションをFREEプランに巻き戻して永続化する。
// 新しい名目有効期間は現在時刻から3ヶ月。
func (s *Service) reconcile(ctx context.Context, sub *model.Subscription) error {
	now := time.Now()
	sub.PlanType = model.PlanFree
	sub.StartTime = now
	sub.EndTime = now.AddDate(0, freeWindowMonths, 0)

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return fmt.Errorf("FREEプランへの巻き戻しに失敗しました: %w", err)
	}
	return nil
}

// UpdatePlan はユーザーのプラン種別を変更し、有効期間を再計算する。
// FREEへの変更は現在時刻から3ヶ月の期間を設定する。有料プランは
// ANNUALLYが1年後開始、それ以外が1ヶ月後開始となる。この「未来開始」の
// 方針は元システムの挙動をそのまま保存している。
func (s *Service) UpdatePlan(ctx context.Context, userID string, planType model.PlanType) (*model.Subscription, error) {
	sub, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}
	if sub == nil {
		return nil, model.NewSubscriptionNotFoundError(userID)
	}

	now := time.Now()
	sub.PlanType = planType
	switch planType {
	case model.PlanFree:
		sub.StartTime = now
		sub.EndTime = now.AddDate(0, freeWindowMonths, 0)
	case model.PlanAnnually:
		sub.StartTime = now.AddDate(1, 0, 0)
	default:
		sub.StartTime = now.AddDate(0, 1, 0)
	}

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("プランの更新に失敗しました: %w", err)
	}

	return sub, nil
}
