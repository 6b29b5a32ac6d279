// Package model はドメインモデルを定義する。
package model

import "time"

// Project はプロジェクトを表す。
// チーム名簿（project_members）と専属チャットの名簿（chat_members）は
// 常に一致するという不変条件を持つ。名簿への書き込みはmembershipパッケージ
// のみが行う。
type Project struct {
	ID          string
	Name        string
	Description string
	Category    string
	Tags        []string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chat はプロジェクト専属のチャットを表す。
// プロジェクトと1:1で、プロジェクトと同じライフタイムを持つ
// （プロジェクト作成時に作成され、削除時にCASCADE削除される）。
type Chat struct {
	ID        string
	ProjectID string
	CreatedAt time.Time
}

// Message はチャット内のメッセージを表す。
// 追記専用で、created_at昇順で並ぶ。
type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	Content   string
	CreatedAt time.Time
}
