package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMembershipRepo はPostgreSQLを使用した名簿同期リポジトリ。
// project_membersとchat_membersの2つの名簿を常に同一トランザクションで
// 更新する、名簿への唯一の書き込み経路。
type PostgresMembershipRepo struct {
	db *sql.DB
}

// NewPostgresMembershipRepo はPostgresMembershipRepoを生成する。
func NewPostgresMembershipRepo(db *sql.DB) *PostgresMembershipRepo {
	return &PostgresMembershipRepo{db: db}
}

// AddMember はユーザーをチーム名簿と専属チャットの名簿の両方に追加する。
// 既にメンバーの場合はON CONFLICTにより何もしない（冪等）。
func (r *PostgresMembershipRepo) AddMember(ctx context.Context, projectID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("チーム名簿への追加に失敗しました: %w", err)
	}

	// チャット名簿はプロジェクトIDから専属チャットを引いて同時に更新する
	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_members (chat_id, user_id)
		 SELECT c.id, $2 FROM chats c WHERE c.project_id = $1
		 ON CONFLICT DO NOTHING`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("チャット名簿への追加に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RemoveMember はユーザーを両名簿から削除する。
// メンバーでない場合は何もしない（冪等）。
func (r *PostgresMembershipRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("チーム名簿からの削除に失敗しました: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM chat_members cm
		 USING chats c
		 WHERE cm.chat_id = c.id AND c.project_id = $1 AND cm.user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("チャット名簿からの削除に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsMember はユーザーがプロジェクトのチームに属しているかを返す。
func (r *PostgresMembershipRepo) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("メンバー判定に失敗しました: %w", err)
	}
	return exists, nil
}

// compile-time interface check
var _ MembershipRepository = (*PostgresMembershipRepo)(nil)
