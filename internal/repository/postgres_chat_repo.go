package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// PostgresChatRepo はPostgreSQLを使用したチャットリポジトリ。
type PostgresChatRepo struct {
	db *sql.DB
}

// NewPostgresChatRepo はPostgresChatRepoを生成する。
func NewPostgresChatRepo(db *sql.DB) *PostgresChatRepo {
	return &PostgresChatRepo{db: db}
}

// FindByID は指定IDのチャットを取得する。見つからない場合はnilを返す。
func (r *PostgresChatRepo) FindByID(ctx context.Context, id string) (*model.Chat, error) {
	chat := &model.Chat{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, created_at FROM chats WHERE id = $1`,
		id,
	).Scan(&chat.ID, &chat.ProjectID, &chat.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}

	return chat, nil
}

// FindByProjectID はプロジェクトの専属チャットを取得する。見つからない場合はnilを返す。
func (r *PostgresChatRepo) FindByProjectID(ctx context.Context, projectID string) (*model.Chat, error) {
	chat := &model.Chat{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, created_at FROM chats WHERE project_id = $1`,
		projectID,
	).Scan(&chat.ID, &chat.ProjectID, &chat.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロジェクトのチャット取得に失敗しました: %w", err)
	}

	return chat, nil
}

// ListMembers はチャットの名簿を返す。
func (r *PostgresChatRepo) ListMembers(ctx context.Context, chatID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.full_name, u.password_hash, u.project_size, u.created_at, u.updated_at
		 FROM users u
		 JOIN chat_members cm ON cm.user_id = u.id
		 WHERE cm.chat_id = $1
		 ORDER BY u.created_at ASC`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("チャット名簿の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash,
			&user.ProjectSize, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("名簿行の読み取りに失敗しました: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("チャット名簿の走査に失敗しました: %w", err)
	}
	return users, nil
}

// IsMember はユーザーがチャットの名簿に属しているかを返す。
func (r *PostgresChatRepo) IsMember(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id = $1 AND user_id = $2)`,
		chatID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("チャットメンバー判定に失敗しました: %w", err)
	}
	return exists, nil
}

// compile-time interface check
var _ ChatRepository = (*PostgresChatRepo)(nil)
