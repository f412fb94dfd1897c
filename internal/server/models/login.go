package models

import "time"

// LoginResponse is returned to callers after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

func NewLoginResponse(token string, ttl time.Duration) *LoginResponse {
	return &LoginResponse{Token: token, ExpiresIn: int64(ttl / time.Second)}
}

// ExpiresAfter converts ExpiresIn back to a duration.
func (r *LoginResponse) ExpiresAfter() time.Duration {
	return time.Duration(r.ExpiresIn) * time.Second
}
