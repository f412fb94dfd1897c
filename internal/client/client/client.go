package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
)

// Client is the account API as seen by the CLI.
type Client interface {
	Close() error
	Register(ctx context.Context, userName, email, password string) (*api.Account, error)
	Confirm(ctx context.Context, code string) (*api.Account, error)
	ResendVerification(ctx context.Context, email string) (*api.ResendVerificationResponse, error)
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout()
	Me(ctx context.Context) (*api.Account, error)
	ListAccounts(ctx context.Context) ([]api.Account, error)
	ExportAccounts(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}
