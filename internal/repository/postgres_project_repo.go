package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	project := &model.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, category, tags, owner_id, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&project.ID, &project.Name, &project.Description, &project.Category,
		pq.Array(&project.Tags), &project.OwnerID, &project.CreatedAt, &project.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}

	return project, nil
}

// CreateWithChat はプロジェクト、オーナーのみのチーム名簿、専属チャット、
// チャット名簿、オーナーのproject_size増分を同一トランザクションで作成する。
func (r *PostgresProjectRepo) CreateWithChat(ctx context.Context, project *model.Project, chat *model.Chat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// プロジェクトを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, category, tags, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		project.ID, project.Name, project.Description, project.Category,
		pq.Array(project.Tags), project.OwnerID, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("プロジェクトの作成に失敗しました: %w", err)
	}

	// オーナーをチーム名簿に追加（owner ∈ team の不変条件）
	_, err = tx.ExecContext(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
		project.ID, project.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("チーム名簿への追加に失敗しました: %w", err)
	}

	// 専属チャットを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO chats (id, project_id, created_at) VALUES ($1, $2, $3)`,
		chat.ID, chat.ProjectID, chat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("チャットの作成に失敗しました: %w", err)
	}

	// チャット名簿はチーム名簿と同じ内容で初期化する
	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2)`,
		chat.ID, project.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("チャット名簿への追加に失敗しました: %w", err)
	}

	// オーナーの所属プロジェクト数を増分
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET project_size = project_size + 1, updated_at = NOW() WHERE id = $1`,
		project.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("project_sizeの更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update はプロジェクトの名前・説明・タグを更新する。
func (r *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = $2, description = $3, tags = $4, updated_at = NOW() WHERE id = $1`,
		project.ID, project.Name, project.Description, pq.Array(project.Tags),
	)
	if err != nil {
		return fmt.Errorf("プロジェクトの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("プロジェクトが見つかりません: %s", project.ID)
	}
	return nil
}

// Delete はプロジェクトを削除し、オーナーのproject_sizeを減分する。
// チャット・課題・招待・名簿はCASCADE削除される。
func (r *PostgresProjectRepo) Delete(ctx context.Context, projectID, ownerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		projectID,
	)
	if err != nil {
		return fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("プロジェクトが見つかりません: %s", projectID)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET project_size = project_size - 1, updated_at = NOW() WHERE id = $1`,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("project_sizeの更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByMember はユーザーが所有または参加しているプロジェクト一覧を返す。
func (r *PostgresProjectRepo) ListByMember(ctx context.Context, userID string) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.description, p.category, p.tags, p.owner_id, p.created_at, p.updated_at
		 FROM projects p
		 LEFT JOIN project_members pm ON pm.project_id = p.id
		 WHERE p.owner_id = $1 OR pm.user_id = $1
		 ORDER BY p.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// SearchByName はユーザーのプロジェクトを名前の部分一致で検索する。
func (r *PostgresProjectRepo) SearchByName(ctx context.Context, keyword, userID string) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT p.id, p.name, p.description, p.category, p.tags, p.owner_id, p.created_at, p.updated_at
		 FROM projects p
		 JOIN project_members pm ON pm.project_id = p.id
		 WHERE pm.user_id = $2 AND p.name ILIKE '%' || $1 || '%'
		 ORDER BY p.created_at ASC`,
		keyword, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの検索に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

// ListTeam はプロジェクトのチーム名簿を返す。
func (r *PostgresProjectRepo) ListTeam(ctx context.Context, projectID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.full_name, u.password_hash, u.project_size, u.created_at, u.updated_at
		 FROM users u
		 JOIN project_members pm ON pm.user_id = u.id
		 WHERE pm.project_id = $1
		 ORDER BY u.created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("チーム名簿の取得に失敗しました: %w", err)
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
		return nil, fmt.Errorf("名簿の走査に失敗しました: %w", err)
	}
	return users, nil
}

// scanProjects は複数行のプロジェクトを読み取る。
func scanProjects(rows *sql.Rows) ([]*model.Project, error) {
	var projects []*model.Project
	for rows.Next() {
		project := &model.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.Category,
			pq.Array(&project.Tags), &project.OwnerID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("プロジェクト行の読み取りに失敗しました: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の走査に失敗しました: %w", err)
	}
	return projects, nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
