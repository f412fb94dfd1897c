// Package services holds the account lifecycle: registration, email
// verification, login and token authentication.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// AccountService registers accounts and exchanges credentials for tokens.
type AccountService struct {
	repo         accounts.Repository
	hasher       password.Hasher
	tokens       auth.TokenIssuer
	verification *VerificationService
	tokenTTL     time.Duration
	logger       logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAccountService(repo accounts.Repository, hasher password.Hasher, tokens auth.TokenIssuer,
	verification *VerificationService, cfg *config.Config, l logging.Logger) *AccountService {
	return &AccountService{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		verification: verification,
		tokenTTL:     cfg.AccessTokenValidityDuration,
		logger:       l.With("module", "accounts"),
	}
}

// Register creates a disabled account with a pending verification code.
// The plaintext password is hashed before anything is stored.
func (s *AccountService) Register(ctx context.Context, userName, email, plain string) (*models.Account, error) {
	if plain == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	account, err := models.NewAccount(userName, email, hash)
	if err != nil {
		return nil, err
	}
	s.verification.Stamp(account)

	stored, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			s.logger.Info(ctx, "registration rejected, account exists")
		}
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", stored.ID)
	s.verification.notify(ctx, stored)

	return stored, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller; a disabled account
// is reported only after the password checks out.
func (s *AccountService) Login(ctx context.Context, email, plain string) (*models.LoginResponse, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnHash(plain)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(plain, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unusable", "account_id", account.ID, "error", err.Error())
		return nil, fmt.Errorf("%w: verify password: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if !account.IsEnabled() {
		return nil, common.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(account.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "login succeeded", "account_id", account.ID)
	return models.NewLoginResponse(token, s.tokenTTL), nil
}

// ListAccounts returns every stored account ordered by id.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.repo.ListAll(ctx)
}

// Authenticate resolves a session token to an enabled account.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	id, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !account.IsEnabled() {
		return nil, common.ErrAccountDisabled
	}

	return account, nil
}

// burnHash spends one hash comparison so unknown emails take about as long
// as wrong passwords.
func (s *AccountService) burnHash(plain string) {
	s.dummyOnce.Do(func() {
		dummy, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		s.dummyHash, _ = s.hasher.Hash(dummy)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(plain, s.dummyHash)
	}
}
