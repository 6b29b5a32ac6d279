// Package model はドメインモデルを定義する。
package model

import "time"

// Invitation はプロジェクトへの招待を表す。
// Tokenは1回限り有効な不透明トークンで、受諾成功または明示的な取り消しで
// 行ごと削除される。1つのトークンは高々1つの生きたInvitationに解決される。
type Invitation struct {
	ID        string
	Email     string
	ProjectID string
	Token     string
	CreatedAt time.Time
}
