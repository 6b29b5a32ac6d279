package repository

import (
	"testing"
)

// 各Postgres実装が対応するリポジトリインターフェースを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ ProjectRepository = (*PostgresProjectRepo)(nil)
	var _ MembershipRepository = (*PostgresMembershipRepo)(nil)
	var _ ChatRepository = (*PostgresChatRepo)(nil)
	var _ MessageRepository = (*PostgresMessageRepo)(nil)
	var _ InvitationRepository = (*PostgresInvitationRepo)(nil)
	var _ SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)
	var _ IssueRepository = (*PostgresIssueRepo)(nil)
}

// 各コンストラクタが正しく初期化されることを検証
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("NewPostgresUserRepo returned nil")
	}
	if NewPostgresProjectRepo(nil) == nil {
		t.Error("NewPostgresProjectRepo returned nil")
	}
	if NewPostgresMembershipRepo(nil) == nil {
		t.Error("NewPostgresMembershipRepo returned nil")
	}
	if NewPostgresChatRepo(nil) == nil {
		t.Error("NewPostgresChatRepo returned nil")
	}
	if NewPostgresMessageRepo(nil) == nil {
		t.Error("NewPostgresMessageRepo returned nil")
	}
	if NewPostgresInvitationRepo(nil) == nil {
		t.Error("NewPostgresInvitationRepo returned nil")
	}
	if NewPostgresSubscriptionRepo(nil) == nil {
		t.Error("NewPostgresSubscriptionRepo returned nil")
	}
	if NewPostgresIssueRepo(nil) == nil {
		t.Error("NewPostgresIssueRepo returned nil")
	}
}
