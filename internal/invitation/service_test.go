package invitation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// --- モック ---

type mockInvRepo struct {
	createFn         func(ctx context.Context, inv *model.Invitation) error
	findByTokenFn    func(ctx context.Context, token string) (*model.Invitation, error)
	findByEmailFn    func(ctx context.Context, email string) (*model.Invitation, error)
	consumeByTokenFn func(ctx context.Context, token string) (*model.Invitation, error)
	deleteByTokenFn  func(ctx context.Context, token string) error
}

func (m *mockInvRepo) Create(ctx context.Context, inv *model.Invitation) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}
func (m *mockInvRepo) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	return m.findByTokenFn(ctx, token)
}
func (m *mockInvRepo) FindByEmail(ctx context.Context, email string) (*model.Invitation, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockInvRepo) ConsumeByToken(ctx context.Context, token string) (*model.Invitation, error) {
	return m.consumeByTokenFn(ctx, token)
}
func (m *mockInvRepo) DeleteByToken(ctx context.Context, token string) error {
	if m.deleteByTokenFn != nil {
		return m.deleteByTokenFn(ctx, token)
	}
	return nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, to, subject, body string) error
	sent   []string
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.sent = append(m.sent, body)
	if m.sendFn != nil {
		return m.sendFn(ctx, to, subject, body)
	}
	return nil
}

// --- テスト ---

// TestService_Send は招待の発行とメール送信を検証する。
// 招待行はメール送信の前に永続化される。
func TestService_Send(t *testing.T) {
	var persisted *model.Invitation
	mailer := &mockMailer{}
	repo := &mockInvRepo{
		createFn: func(ctx context.Context, inv *model.Invitation) error {
			persisted = inv
			// 送信はまだ行われていない
			if len(mailer.sent) != 0 {
				t.Error("mail was sent before the invitation was persisted")
			}
			return nil
		},
	}
	svc := NewService(repo, mailer, nil, "https://app.example.com/accept-invitation")

	if err := svc.Send(context.Background(), "dev@example.com", "proj-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if persisted == nil {
		t.Fatal("invitation was not persisted")
	}
	if persisted.Email != "dev@example.com" || persisted.ProjectID != "proj-1" {
		t.Errorf("persisted invitation = %+v", persisted)
	}
	if persisted.Token == "" {
		t.Error("token is empty")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mailer.sent))
	}
	wantLink := "https://app.example.com/accept-invitation?token=" + persisted.Token
	if !strings.Contains(mailer.sent[0], wantLink) {
		t.Errorf("mail body does not contain accept link %q:\n%s", wantLink, mailer.sent[0])
	}
}

// TestService_Send_DeliveryFailure は配送失敗時のエラー伝搬を検証する。
// 招待行はロールバックされず、呼び出し元にDELIVERY_FAILEDが返る。
func TestService_Send_DeliveryFailure(t *testing.T) {
	var persisted *model.Invitation
	repo := &mockInvRepo{
		createFn: func(ctx context.Context, inv *model.Invitation) error {
			persisted = inv
			return nil
		},
	}
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, to, subject, body string) error {
			return errors.New("smtp connection refused")
		},
	}
	svc := NewService(repo, mailer, nil, "https://app.example.com/accept-invitation")

	err := svc.Send(context.Background(), "dev@example.com", "proj-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDeliveryFailed {
		t.Errorf("error = %v, want DELIVERY_FAILED", err)
	}

	// トークンは失われない（再送可能）
	if persisted == nil {
		t.Error("invitation should remain persisted after delivery failure")
	}
}

// TestService_Consume はトークン消費の1回限りの挙動を検証する。
func TestService_Consume(t *testing.T) {
	consumed := false
	repo := &mockInvRepo{
		consumeByTokenFn: func(ctx context.Context, token string) (*model.Invitation, error) {
			if consumed {
				return nil, nil
			}
			consumed = true
			return &model.Invitation{ID: "inv-1", Email: "dev@example.com", ProjectID: "proj-1", Token: token}, nil
		},
	}
	svc := NewService(repo, &mockMailer{}, nil, "")

	// 1回目は成功
	inv, err := svc.Consume(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ProjectID != "proj-1" {
		t.Errorf("ProjectID = %v, want proj-1", inv.ProjectID)
	}

	// 2回目はINVITATION_NOT_FOUND
	_, err = svc.Consume(context.Background(), "tok-1")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvitationNotFound {
		t.Errorf("second consume error = %v, want INVITATION_NOT_FOUND", err)
	}
}

// TestService_Redeem は消費を伴わないトークン解決を検証する。
func TestService_Redeem(t *testing.T) {
	repo := &mockInvRepo{
		findByTokenFn: func(ctx context.Context, token string) (*model.Invitation, error) {
			if token == "tok-1" {
				return &model.Invitation{ID: "inv-1", Token: token}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, &mockMailer{}, nil, "")

	if _, err := svc.Redeem(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Redeem(context.Background(), "unknown")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvitationNotFound {
		t.Errorf("error = %v, want INVITATION_NOT_FOUND", err)
	}
}

// TestService_TokenForEmail は宛先メールアドレスによるトークン照会を検証する。
func TestService_TokenForEmail(t *testing.T) {
	repo := &mockInvRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.Invitation, error) {
			if email == "dev@example.com" {
				return &model.Invitation{Token: "tok-1"}, nil
			}
			return nil, nil
		},
	}
	svc := NewService(repo, &mockMailer{}, nil, "")

	token, err := svc.TokenForEmail(context.Background(), "dev@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("token = %v, want tok-1", token)
	}

	_, err = svc.TokenForEmail(context.Background(), "nobody@example.com")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvitationNotFound {
		t.Errorf("error = %v, want INVITATION_NOT_FOUND", err)
	}
}

// TestService_Revoke は取り消しの冪等性を検証する。
func TestService_Revoke(t *testing.T) {
	calls := 0
	repo := &mockInvRepo{
		deleteByTokenFn: func(ctx context.Context, token string) error {
			calls++
			return nil
		},
	}
	svc := NewService(repo, &mockMailer{}, nil, "")

	if err := svc.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 存在しないトークンの取り消しもエラーにならない
	if err := svc.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error on second revoke: %v", err)
	}
	if calls != 2 {
		t.Errorf("DeleteByToken calls = %d, want 2", calls)
	}
}
