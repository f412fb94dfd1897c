package services

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Notifier delivers a freshly issued verification code to the account owner.
type Notifier interface {
	NotifyVerificationCode(ctx context.Context, account *models.Account) error
}

// LogNotifier records that a code was issued. It never logs the code itself,
// so it only suits setups where codes are read from the store.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifier")}
}

func (n *LogNotifier) NotifyVerificationCode(ctx context.Context, account *models.Account) error {
	n.logger.Info(ctx, "verification code issued",
		"account_id", account.ID,
		"expires_at", account.VerificationExpiresAt,
	)
	return nil
}

// sendMail is a seam for tests.
var sendMail = smtp.SendMail

// SMTPNotifier mails the verification code to the account's address through
// an SMTP relay. The relay may upgrade the session with STARTTLS.
type SMTPNotifier struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger logging.Logger
}

func NewSMTPNotifier(cfg *config.Config, l logging.Logger) *SMTPNotifier {
	n := &SMTPNotifier{
		addr:   cfg.SMTPAddr,
		from:   cfg.SMTPFrom,
		logger: l.With("module", "notifier"),
	}
	if cfg.SMTPUser != "" {
		host, _, err := net.SplitHostPort(cfg.SMTPAddr)
		if err != nil {
			host = cfg.SMTPAddr
		}
		n.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, host)
	}
	return n
}

func (n *SMTPNotifier) NotifyVerificationCode(ctx context.Context, account *models.Account) error {
	if account.VerificationCode == nil || account.VerificationExpiresAt == nil {
		return fmt.Errorf("account %d has no pending verification code", account.ID)
	}

	msg := verificationMessage(n.from, account.Email, *account.VerificationCode, *account.VerificationExpiresAt)
	if err := sendMail(n.addr, n.auth, n.from, []string{account.Email}, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	n.logger.Info(ctx, "verification mail sent",
		"account_id", account.ID,
		"expires_at", account.VerificationExpiresAt,
	)
	return nil
}

func verificationMessage(from, to, code string, expiresAt time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your gophauth verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your verification code is: %s\r\n", code)
	fmt.Fprintf(&b, "It is valid until %s.\r\n", expiresAt.UTC().Format(time.RFC1123))
	return []byte(b.String())
}
