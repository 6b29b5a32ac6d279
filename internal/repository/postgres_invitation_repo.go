package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// PostgresInvitationRepo はPostgreSQLを使用した招待リポジトリ。
type PostgresInvitationRepo struct {
	db *sql.DB
}

// NewPostgresInvitationRepo はPostgresInvitationRepoを生成する。
func NewPostgresInvitationRepo(db *sql.DB) *PostgresInvitationRepo {
	return &PostgresInvitationRepo{db: db}
}

// Create は招待を作成する。
func (r *PostgresInvitationRepo) Create(ctx context.Context, invitation *model.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, email, project_id, token, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		invitation.ID, invitation.Email, invitation.ProjectID, invitation.Token, invitation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("招待の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByToken はトークンで招待を検索する。見つからない場合はnilを返す。
func (r *PostgresInvitationRepo) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	invitation := &model.Invitation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, project_id, token, created_at FROM invitations WHERE token = $1`,
		token,
	).Scan(&invitation.ID, &invitation.Email, &invitation.ProjectID, &invitation.Token, &invitation.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("招待の取得に失敗しました: %w", err)
	}

	return invitation, nil
}

// FindByEmail は宛先メールアドレスで未消費の招待を検索する。見つからない場合はnilを返す。
// 同一宛先に複数の招待がある場合は最新のものを返す。
func (r *PostgresInvitationRepo) FindByEmail(ctx context.Context, email string) (*model.Invitation, error) {
	invitation := &model.Invitation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, project_id, token, created_at
		 FROM invitations WHERE email = $1
		 ORDER BY created_at DESC LIMIT 1`,
		email,
	).Scan(&invitation.ID, &invitation.Email, &invitation.ProjectID, &invitation.Token, &invitation.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("メールアドレスによる招待の検索に失敗しました: %w", err)
	}

	return invitation, nil
}

// ConsumeByToken は招待をアトミックに検索して削除する。
// DELETE ... RETURNINGの1文で行うため、同一トークンで競合する呼び出しの
// うち高々1つだけが行を受け取る。見つからない（または消費済みの）場合は
// nilを返す。
func (r *PostgresInvitationRepo) ConsumeByToken(ctx context.Context, token string) (*model.Invitation, error) {
	invitation := &model.Invitation{}
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM invitations WHERE token = $1
		 RETURNING id, email, project_id, token, created_at`,
		token,
	).Scan(&invitation.ID, &invitation.Email, &invitation.ProjectID, &invitation.Token, &invitation.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("招待の消費に失敗しました: %w", err)
	}

	return invitation, nil
}

// DeleteByToken はトークンに対応する招待を削除する。
// 存在しないトークンの削除はエラーにならない（冪等）。
func (r *PostgresInvitationRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("招待の削除に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ InvitationRepository = (*PostgresInvitationRepo)(nil)
