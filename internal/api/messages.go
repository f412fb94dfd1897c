package api

import "time"

// Account is the public view of an account. Password hashes and
// verification codes never cross the wire.
type Account struct {
	ID                    int64      `json:"id"`
	UserName              string     `json:"username"`
	Email                 string     `json:"email"`
	Enabled               bool       `json:"enabled"`
	PendingVerification   bool       `json:"pendingVerification"`
	VerificationExpiresAt *time.Time `json:"verificationExpiresAt,omitempty"`
	Authorities           []string   `json:"authorities"`
	CreatedAt             time.Time  `json:"createdAt"`
}

type RegisterRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Account Account `json:"account"`
}

type ConfirmRequest struct {
	Code string `json:"code"`
}

type ConfirmResponse struct {
	Account Account `json:"account"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type ResendVerificationResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type MeRequest struct{}

type MeResponse struct {
	Account Account `json:"account"`
}

type ExportAccountsRequest struct{}

type ExportAccountsResponse struct {
	Key string `json:"key"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
