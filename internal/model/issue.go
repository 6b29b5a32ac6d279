// Package model はドメインモデルを定義する。
package model

import "time"

// Issue はプロジェクト配下の課題を表す。
// プロジェクトの存在に依存し、プロジェクト削除時にCASCADE削除される。
type Issue struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	// AssigneeID は担当者。未割り当ての場合はnil。
	AssigneeID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
