// Package model はドメインモデルを定義する。
package model

import "time"

// PlanType はサブスクリプションのプラン種別を表す。
type PlanType string

const (
	// PlanFree は無料プラン。有効期限の判定を行わない。
	PlanFree PlanType = "FREE"
	// PlanMonthly は月額プラン。
	PlanMonthly PlanType = "MONTHLY"
	// PlanAnnually は年額プラン。
	PlanAnnually PlanType = "ANNUALLY"
)

// ParsePlanType は文字列をPlanTypeに変換する。未知の値はfalseを返す。
func ParsePlanType(s string) (PlanType, bool) {
	switch PlanType(s) {
	case PlanFree, PlanMonthly, PlanAnnually:
		return PlanType(s), true
	}
	return "", false
}

// Subscription はユーザーのサブスクリプションを表す。
// ユーザー作成時にFREEプランで1回だけ作成され、以後は更新のみで削除されない。
type Subscription struct {
	ID        string
	UserID    string
	PlanType  PlanType
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
}
