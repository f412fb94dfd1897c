package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type fakeAccounts struct {
	authAccount *models.Account
	authErr     error
	authToken   string

	listOut []*models.Account
	listErr error
}

func (f *fakeAccounts) Register(ctx context.Context, userName, email, password string) (*models.Account, error) {
	return nil, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	return nil, nil
}

func (f *fakeAccounts) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return f.listOut, f.listErr
}

func (f *fakeAccounts) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	f.authToken = token
	return f.authAccount, f.authErr
}

type fakeExporter struct {
	key   string
	err   error
	calls int
}

func (f *fakeExporter) Export(ctx context.Context) (string, error) {
	f.calls++
	return f.key, f.err
}
