package models

import "time"

// AccountView is the public projection of an Account. It carries neither
// the password hash nor the verification code.
type AccountView struct {
	ID                  int64      `json:"id"`
	UserName            string     `json:"username"`
	Email               string     `json:"email"`
	Enabled             bool       `json:"enabled"`
	PendingVerification bool       `json:"pendingVerification"`
	VerificationExpires *time.Time `json:"verificationExpiresAt,omitempty"`
	Authorities         []string   `json:"authorities"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (a *Account) View() AccountView {
	v := AccountView{
		ID:                  a.ID,
		UserName:            a.UserName,
		Email:               a.Email,
		Enabled:             a.Enabled,
		PendingVerification: a.HasPendingVerification(),
		Authorities:         a.Authorities(),
		CreatedAt:           a.CreatedAt,
	}
	if a.VerificationExpiresAt != nil {
		exp := *a.VerificationExpiresAt
		v.VerificationExpires = &exp
	}
	return v
}

// Views projects a slice of accounts.
func Views(accounts []*Account) []AccountView {
	out := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.View())
	}
	return out
}
