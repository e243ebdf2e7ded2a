package results

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

func (c SmtpConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

func (e Export) mail(from string, to []string) (*email.Email, error) {
	content := e.Render()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Udemy Coupons <%s>", from)
	mail.To = to
	mail.Subject = fmt.Sprintf("%d free Udemy coupons (%s)", len(e.Coupons), e.GeneratedAt.Format(generatedLayout))
	mail.Text = []byte(content)
	_, err := mail.Attach(strings.NewReader(content), e.FileName(), "text/plain; charset=utf-8")
	if err != nil {
		return nil, err
	}
	return mail, nil
}

// SendMail mails the rendered export to every recipient in `to`. Servers
// that don't support AUTH are retried without it.
func (e Export) SendMail(ctx context.Context, config SmtpConfig, to []string) error {
	ctx, span := tracer.Start(ctx, "export:SendMail")
	defer span.End()

	if len(e.Coupons) == 0 {
		return ErrNoCoupons
	}

	mail, err := e.mail(config.EmailAddress, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build email")
		return err
	}
	err = mail.Send(
		config.addr(),
		smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(config.addr(), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
