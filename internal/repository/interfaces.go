// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile はユーザーの表示名と所属プロジェクト数を更新する。
	UpdateProfile(ctx context.Context, user *model.User) error

	// AddProjectSize は所属プロジェクト数をdelta分だけ増減する。
	AddProjectSize(ctx context.Context, userID string, delta int) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
// 名簿（project_members / chat_members）への書き込みはMembershipRepositoryが担う。
type ProjectRepository interface {
	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// CreateWithChat はプロジェクト、オーナーのみのチーム名簿、専属チャット、
	// チャット名簿、オーナーのproject_size増分を同一トランザクションで作成する。
	// プロジェクトだけ存在してチャットが無い中間状態は観測されない。
	CreateWithChat(ctx context.Context, project *model.Project, chat *model.Chat) error

	// Update はプロジェクトの名前・説明・タグを更新する。
	Update(ctx context.Context, project *model.Project) error

	// Delete はプロジェクトを削除し、オーナーのproject_sizeを減分する。
	// チャット・課題・招待はCASCADE削除される。
	Delete(ctx context.Context, projectID, ownerID string) error

	// ListByMember はユーザーが所有または参加しているプロジェクト一覧を返す。
	ListByMember(ctx context.Context, userID string) ([]*model.Project, error)

	// SearchByName はユーザーのプロジェクトを名前の部分一致で検索する。
	SearchByName(ctx context.Context, keyword, userID string) ([]*model.Project, error)

	// ListTeam はプロジェクトのチーム名簿を返す。
	ListTeam(ctx context.Context, projectID string) ([]*model.User, error)
}

// MembershipRepository はチーム名簿とチャット名簿の同期書き込みインターフェース。
// 両名簿は常に同一トランザクションで更新され、片方だけ更新された状態は
// 操作境界の外から観測されない。
type MembershipRepository interface {
	// AddMember はユーザーをproject_membersとchat_membersの両方に追加する。
	// 既にメンバーの場合は何もしない（冪等）。
	AddMember(ctx context.Context, projectID, userID string) error

	// RemoveMember はユーザーを両名簿から削除する。
	// メンバーでない場合は何もしない（冪等）。
	RemoveMember(ctx context.Context, projectID, userID string) error

	// IsMember はユーザーがプロジェクトのチームに属しているかを返す。
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}

// ChatRepository はチャットデータの読み取りインターフェース。
// チャットの作成はProjectRepository.CreateWithChatが、名簿の書き込みは
// MembershipRepositoryが行う。
type ChatRepository interface {
	// FindByID は指定IDのチャットを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Chat, error)

	// FindByProjectID はプロジェクトの専属チャットを取得する。見つからない場合はnilを返す。
	FindByProjectID(ctx context.Context, projectID string) (*model.Chat, error)

	// ListMembers はチャットの名簿を返す。
	ListMembers(ctx context.Context, chatID string) ([]*model.User, error)

	// IsMember はユーザーがチャットの名簿に属しているかを返す。
	IsMember(ctx context.Context, chatID, userID string) (bool, error)
}

// MessageRepository はチャットメッセージの永続化インターフェース。
type MessageRepository interface {
	// Create はメッセージを追記する。
	Create(ctx context.Context, message *model.Message) error

	// ListByChatID はチャットのメッセージをcreated_at昇順で返す。
	ListByChatID(ctx context.Context, chatID string) ([]*model.Message, error)
}

// InvitationRepository は招待データの永続化インターフェース。
type InvitationRepository interface {
	// Create は招待を作成する。
	Create(ctx context.Context, invitation *model.Invitation) error

	// FindByToken はトークンで招待を検索する。見つからない場合はnilを返す。
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)

	// FindByEmail は宛先メールアドレスで未消費の招待を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Invitation, error)

	// ConsumeByToken は招待をアトミックに検索して削除する（check-and-delete）。
	// 同一トークンで競合する呼び出しのうち高々1つだけが招待を受け取り、
	// 他はnilを受け取る。見つからない場合はnilを返す。
	ConsumeByToken(ctx context.Context, token string) (*model.Invitation, error)

	// DeleteByToken はトークンに対応する招待を削除する。
	// 存在しないトークンの削除はエラーにならない（冪等）。
	DeleteByToken(ctx context.Context, token string) error
}

// SubscriptionRepository はサブスクリプションデータの永続化インターフェース。
type SubscriptionRepository interface {
	// Create はサブスクリプションを作成する。ユーザー作成時に1回だけ呼ばれる。
	Create(ctx context.Context, subscription *model.Subscription) error

	// FindByUserID はユーザーのサブスクリプションを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)

	// Update はプラン種別と有効期間を更新する。
	Update(ctx context.Context, subscription *model.Subscription) error
}

// IssueRepository は課題データの永続化インターフェース。
type IssueRepository interface {
	// FindByID は指定IDの課題を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Issue, error)

	// ListByProjectID はプロジェクトの課題一覧を返す。
	ListByProjectID(ctx context.Context, projectID string) ([]*model.Issue, error)

	// Create は課題を作成する。
	Create(ctx context.Context, issue *model.Issue) error

	// Delete は指定IDの課題を削除する。
	Delete(ctx context.Context, id string) error

	// UpdateAssignee は課題の担当者を設定する。
	UpdateAssignee(ctx context.Context, issueID, userID string) error

	// UpdateStatus は課題のステータスを更新する。
	UpdateStatus(ctx context.Context, issueID, status string) error
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
