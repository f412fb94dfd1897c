package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (n *recordingNotifier) NotifyVerificationCode(_ context.Context, a *models.Account) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if a.VerificationCode != nil {
		n.codes = append(n.codes, *a.VerificationCode)
	}
	return n.err
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.codes) == 0 {
		return ""
	}
	return n.codes[len(n.codes)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.codes)
}

type fixture struct {
	clock    *clockwork.FakeClock
	repo     accounts.Repository
	notifier *recordingNotifier
	tokens   *auth.JWTIssuer
	verify   *VerificationService
	svc      *AccountService
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		VerificationCodeTTL:         24 * time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	return newFixtureWithRepo(t, clock, accounts.NewMemoryRepository(clock))
}

func newFixtureWithRepo(t *testing.T, clock *clockwork.FakeClock, repo accounts.Repository) *fixture {
	t.Helper()
	cfg := testConfig()
	l := logging.Nop{}

	f := &fixture{
		clock:    clock,
		repo:     repo,
		notifier: &recordingNotifier{},
		tokens:   auth.NewJWTIssuer([]byte(cfg.SecretKey), "gophauth", clock),
	}
	f.verify = NewVerificationService(repo, f.notifier, clock, cfg, l)
	f.svc = NewAccountService(repo, password.NewBcryptHasher(cfg.BcryptCost), f.tokens, f.verify, cfg, l)
	return f
}

func (f *fixture) register(t *testing.T, userName, email, plain string) *models.Account {
	t.Helper()
	a, err := f.svc.Register(context.Background(), userName, email, plain)
	if err != nil {
		t.Fatalf("Register(%q): %v", email, err)
	}
	return a
}

// failingRepo wraps a repository and injects errors per operation.
type failingRepo struct {
	accounts.Repository
	findByEmailErr error
	updateErr      error
	listErr        error
}

func (r *failingRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	return r.Repository.FindByEmail(ctx, email)
}

func (r *failingRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.Repository.Update(ctx, a)
}

func (r *failingRepo) ListAll(ctx context.Context) ([]*models.Account, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Repository.ListAll(ctx)
}

var errBoom = errors.New("boom")
