package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesPendingAccount(t *testing.T) {
	f := newFixture(t)

	a := f.register(t, "alice", "Alice@Example.com", "pw1")

	assert.NotZero(t, a.ID)
	assert.Equal(t, "alice@example.com", a.Email)
	assert.False(t, a.Enabled)
	require.NotNil(t, a.VerificationCode)
	require.NotNil(t, a.VerificationExpiresAt)
	assert.NotEmpty(t, *a.VerificationCode)
	assert.True(t, a.VerificationExpiresAt.Equal(epoch.Add(24*time.Hour)))

	assert.NotEqual(t, "pw1", a.PasswordHash)
	assert.False(t, strings.Contains(a.PasswordHash, "pw1"))
	assert.True(t, strings.HasPrefix(a.PasswordHash, "$2"))

	assert.Equal(t, 1, f.notifier.count())
}

func TestRegister_DistinctCodes(t *testing.T) {
	f := newFixture(t)

	a := f.register(t, "alice", "alice@example.com", "pw1")
	b := f.register(t, "bob", "bob@example.com", "pw2")

	assert.NotEqual(t, *a.VerificationCode, *b.VerificationCode)
}

func TestRegister_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com", "pw1")

	_, err := f.svc.Register(ctx, "alice2", "ALICE@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrConflict)

	_, err = f.svc.Register(ctx, "alice", "other@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrConflict)

	all, err := f.svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name, user, email, pw string
	}{
		{"empty password", "alice", "alice@example.com", ""},
		{"empty username", " ", "alice@example.com", "pw"},
		{"empty email", "alice", "", "pw"},
		{"malformed email", "alice", "not-an-email", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.user, tt.email, tt.pw)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
	assert.Zero(t, f.notifier.count())
}

func TestRegister_NotifierFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errBoom

	a, err := f.svc.Register(context.Background(), "alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
}

func TestLogin_Scenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice", "alice@example.com", "pw1")

	// disabled account: correct password is still refused
	_, err := f.svc.Login(ctx, "alice@example.com", "pw1")
	assert.ErrorIs(t, err, common.ErrAccountDisabled)

	_, err = f.svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", "pw1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = f.verify.Confirm(ctx, *a.VerificationCode)
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, "ALICE@example.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	_, err = f.svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	got, err := f.svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestLogin_StoreUnavailable(t *testing.T) {
	clock := newFixture(t).clock
	repo := &failingRepo{
		Repository:     accounts.NewMemoryRepository(clock),
		findByEmailErr: common.ErrUnavailable,
	}
	f := newFixtureWithRepo(t, clock, repo)

	_, err := f.svc.Login(context.Background(), "alice@example.com", "pw1")
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestLogin_CorruptHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice", "alice@example.com", "pw1")

	a.PasswordHash = "garbage"
	_, err := f.repo.Update(ctx, a)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "alice@example.com", "pw1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice", "alice@example.com", "pw1")

	// token for a pending account
	pending, err := f.tokens.Issue(a.ID, time.Hour)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, pending)
	assert.ErrorIs(t, err, common.ErrAccountDisabled)

	_, err = f.verify.Confirm(ctx, *a.VerificationCode)
	require.NoError(t, err)
	resp, err := f.svc.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	ghost, err := f.tokens.Issue(999, time.Hour)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	f.clock.Advance(time.Hour + time.Second)
	_, err = f.svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestListAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	a := f.register(t, "alice", "alice@example.com", "pw1")
	b := f.register(t, "bob", "bob@example.com", "pw2")
	_, err = f.verify.Confirm(ctx, *b.VerificationCode)
	require.NoError(t, err)

	all, err = f.svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.False(t, all[0].Enabled)
	assert.Equal(t, b.ID, all[1].ID)
	assert.True(t, all[1].Enabled)
}

func TestListAccounts_Error(t *testing.T) {
	clock := newFixture(t).clock
	repo := &failingRepo{Repository: accounts.NewMemoryRepository(clock), listErr: errBoom}
	f := newFixtureWithRepo(t, clock, repo)

	_, err := f.svc.ListAccounts(context.Background())
	assert.True(t, errors.Is(err, errBoom))
}
