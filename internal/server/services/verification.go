package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// confirmAttempts bounds how often Confirm re-reads after losing a
// compare-and-swap race.
const confirmAttempts = 2

// VerificationService issues and checks email verification codes.
type VerificationService struct {
	repo     accounts.Repository
	notifier Notifier
	clock    clockwork.Clock
	ttl      time.Duration
	logger   logging.Logger

	// newCode is a seam for tests; codes are random v4 UUIDs (122 bits).
	newCode func() string
}

func NewVerificationService(repo accounts.Repository, notifier Notifier, clock clockwork.Clock, cfg *config.Config, l logging.Logger) *VerificationService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &VerificationService{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		ttl:      cfg.VerificationCodeTTL,
		logger:   l.With("module", "verification"),
		newCode:  uuid.NewString,
	}
}

// Stamp puts a fresh code and deadline on account without persisting it.
func (s *VerificationService) Stamp(account *models.Account) {
	account.SetVerification(s.newCode(), s.clock.Now().Add(s.ttl))
}

// Issue rotates the verification code of a pending account and persists it.
func (s *VerificationService) Issue(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.IsEnabled() {
		return nil, common.ErrAlreadyVerified
	}

	pending := account.Clone()
	s.Stamp(pending)

	updated, err := s.repo.Update(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("issue verification code: %w", err)
	}

	s.notify(ctx, updated)
	return updated, nil
}

// Resend issues a new code to the pending account registered under email
// and returns its deadline. Unknown and already verified emails get the same
// answer as a successful resend, so the call does not reveal which addresses
// are registered.
func (s *VerificationService) Resend(ctx context.Context, email string) (time.Time, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		s.logger.Info(ctx, "resend requested for unknown email")
		return s.clock.Now().Add(s.ttl), nil
	}
	if err != nil {
		return time.Time{}, err
	}

	updated, err := s.Issue(ctx, account)
	if errors.Is(err, common.ErrAlreadyVerified) {
		s.logger.Info(ctx, "resend requested for verified account", "account_id", account.ID)
		return s.clock.Now().Add(s.ttl), nil
	}
	if err != nil {
		return time.Time{}, err
	}

	return *updated.VerificationExpiresAt, nil
}

// Confirm enables the account holding code. The enable transition happens
// at most once per code: a caller that loses the race to a concurrent
// Confirm gets common.ErrorNotFound.
func (s *VerificationService) Confirm(ctx context.Context, code string) (*models.Account, error) {
	if code == "" {
		return nil, common.ErrorNotFound
	}

	for attempt := 0; attempt < confirmAttempts; attempt++ {
		account, err := s.repo.FindByVerificationCode(ctx, code)
		if err != nil {
			return nil, err
		}

		if account.VerificationExpired(s.clock.Now()) {
			s.logger.Info(ctx, "expired verification code presented", "account_id", account.ID)
			return nil, common.ErrExpired
		}

		account.MarkVerified()
		updated, err := s.repo.Update(ctx, account)
		if errors.Is(err, common.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("confirm verification code: %w", err)
		}

		s.logger.Info(ctx, "account verified", "account_id", updated.ID)
		return updated, nil
	}

	return nil, fmt.Errorf("confirm verification code: %w", common.ErrVersionConflict)
}

func (s *VerificationService) notify(ctx context.Context, account *models.Account) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyVerificationCode(ctx, account); err != nil {
		// The code is stored; the owner can ask for a resend.
		s.logger.Warn(ctx, "verification notification failed", "account_id", account.ID, "error", err.Error())
	}
}
