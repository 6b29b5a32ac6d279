package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// PostgresIssueRepo はPostgreSQLを使用した課題リポジトリ。
type PostgresIssueRepo struct {
	db *sql.DB
}

// NewPostgresIssueRepo はPostgresIssueRepoを生成する。
func NewPostgresIssueRepo(db *sql.DB) *PostgresIssueRepo {
	return &PostgresIssueRepo{db: db}
}

// FindByID は指定IDの課題を取得する。見つからない場合はnilを返す。
func (r *PostgresIssueRepo) FindByID(ctx context.Context, id string) (*model.Issue, error) {
	issue := &model.Issue{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, description, status, priority, due_date, assignee_id, created_at, updated_at
		 FROM issues WHERE id = $1`,
		id,
	).Scan(&issue.ID, &issue.ProjectID, &issue.Title, &issue.Description, &issue.Status,
		&issue.Priority, &issue.DueDate, &issue.AssigneeID, &issue.CreatedAt, &issue.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("課題の取得に失敗しました: %w", err)
	}

	return issue, nil
}

// ListByProjectID はプロジェクトの課題一覧を返す。
func (r *PostgresIssueRepo) ListByProjectID(ctx context.Context, projectID string) ([]*model.Issue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, title, description, status, priority, due_date, assignee_id, created_at, updated_at
		 FROM issues WHERE project_id = $1 ORDER BY created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("課題一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var issues []*model.Issue
	for rows.Next() {
		issue := &model.Issue{}
		if err := rows.Scan(&issue.ID, &issue.ProjectID, &issue.Title, &issue.Description, &issue.Status,
			&issue.Priority, &issue.DueDate, &issue.AssigneeID, &issue.CreatedAt, &issue.UpdatedAt); err != nil {
			return nil, fmt.Errorf("課題行の読み取りに失敗しました: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("課題一覧の走査に失敗しました: %w", err)
	}
	return issues, nil
}

// Create は課題を作成する。
func (r *PostgresIssueRepo) Create(ctx context.Context, issue *model.Issue) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (id, project_id, title, description, status, priority, due_date, assignee_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		issue.ID, issue.ProjectID, issue.Title, issue.Description, issue.Status,
		issue.Priority, issue.DueDate, issue.AssigneeID, issue.CreatedAt, issue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("課題の作成に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの課題を削除する。
func (r *PostgresIssueRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM issues WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("課題の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("課題が見つかりません: %s", id)
	}
	return nil
}

// UpdateAssignee は課題の担当者を設定する。
func (r *PostgresIssueRepo) UpdateAssignee(ctx context.Context, issueID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE issues SET assignee_id = $2, updated_at = NOW() WHERE id = $1`,
		issueID, userID,
	)
	if err != nil {
		return fmt.Errorf("担当者の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("課題が見つかりません: %s", issueID)
	}
	return nil
}

// UpdateStatus は課題のステータスを更新する。
func (r *PostgresIssueRepo) UpdateStatus(ctx context.Context, issueID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE issues SET status = $2, updated_at = NOW() WHERE id = $1`,
		issueID, status,
	)
	if err != nil {
		return fmt.Errorf("ステータスの更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("課題が見つかりません: %s", issueID)
	}
	return nil
}

// compile-time interface check
var _ IssueRepository = (*PostgresIssueRepo)(nil)
