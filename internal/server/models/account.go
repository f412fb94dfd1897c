// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Account is the persisted identity unit: credentials plus the state of
// email verification.
//
// VerificationCode and VerificationExpiresAt are either both set or both nil,
// and an enabled account never carries a code. Use SetVerification and
// MarkVerified rather than assigning those fields directly.
type Account struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	Enabled      bool

	VerificationCode      *string
	VerificationExpiresAt *time.Time

	// Version is bumped by the store on every successful update and is
	// compared on write.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount returns a disabled account after normalizing and validating
// its required fields.
func NewAccount(userName, email, passwordHash string) (*Account, error) {
	a := &Account{
		UserName:     strings.TrimSpace(userName),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks required fields and the verification invariants.
func (a *Account) Validate() error {
	if a.UserName == "" {
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if a.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	if addr, err := mail.ParseAddress(a.Email); err != nil || addr.Address != a.Email {
		return fmt.Errorf("%w: email %q is malformed", common.ErrValidation, a.Email)
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", common.ErrValidation)
	}
	if (a.VerificationCode == nil) != (a.VerificationExpiresAt == nil) {
		return fmt.Errorf("%w: verification code and expiry must be set together", common.ErrValidation)
	}
	if a.Enabled && a.VerificationCode != nil {
		return fmt.Errorf("%w: enabled account must not carry a verification code", common.ErrValidation)
	}
	return nil
}

// SetVerification stores a pending code and its deadline.
func (a *Account) SetVerification(code string, expiresAt time.Time) {
	a.VerificationCode = &code
	a.VerificationExpiresAt = &expiresAt
}

// MarkVerified enables the account and consumes the pending code.
func (a *Account) MarkVerified() {
	a.Enabled = true
	a.VerificationCode = nil
	a.VerificationExpiresAt = nil
}

func (a *Account) HasPendingVerification() bool {
	return a.VerificationCode != nil
}

// VerificationExpired reports whether now is past the code deadline. An
// account without a pending code is never considered expired.
func (a *Account) VerificationExpired(now time.Time) bool {
	if a.VerificationExpiresAt == nil {
		return false
	}
	return now.After(*a.VerificationExpiresAt)
}

// Clone returns a deep copy, so stored records are never aliased.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.VerificationCode != nil {
		code := *a.VerificationCode
		c.VerificationCode = &code
	}
	if a.VerificationExpiresAt != nil {
		exp := *a.VerificationExpiresAt
		c.VerificationExpiresAt = &exp
	}
	return &c
}

// Authorities is always empty: there is no role model.
func (a *Account) Authorities() []string { return []string{} }

func (a *Account) IsAccountNonExpired() bool     { return true }
func (a *Account) IsAccountNonLocked() bool      { return true }
func (a *Account) IsCredentialsNonExpired() bool { return true }
func (a *Account) IsEnabled() bool               { return a.Enabled }
