package invitation

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer はSendGrid APIを使用したMailer実装。
type SendGridMailer struct {
	apiKey      string
	fromAddress string
	fromName    string
}

// NewSendGridMailer はSendGridMailerを生成する。
func NewSendGridMailer(apiKey, fromAddress, fromName string) *SendGridMailer {
	return &SendGridMailer{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// Send はメールを1通送信する。
// SendGridが4xx/5xxを返した場合もエラーとして扱う。
func (m *SendGridMailer) Send(ctx context.Context, toAddress, subject, body string) error {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	to := mail.NewEmail("", toAddress)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// compile-time interface check
var _ Mailer = (*SendGridMailer)(nil)
