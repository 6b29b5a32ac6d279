// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashは資格情報の不透明なハッシュであり、APIレスポンスには含めない。
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	// ProjectSize は所属（所有または参加）プロジェクト数。
	// プロジェクト作成・招待受諾・削除のオーケストレーションで増減する。
	ProjectSize int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
