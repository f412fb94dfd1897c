// Package accounts declares the account store contract and its PostgreSQL
// and in-memory implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists accounts keyed by id, with unique lookups by email and
// username and a lookup by pending verification code.
//
// Implementations must enforce username/email uniqueness atomically and must
// treat Update as compare-and-swap on Account.Version.
type Repository interface {
	// Insert stores a new account and returns it with ID, Version and
	// timestamps assigned. Duplicate username or email yields common.ErrConflict;
	// a record failing Account.Validate yields common.ErrValidation.
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)

	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUserName(ctx context.Context, userName string) (*models.Account, error)
	FindByVerificationCode(ctx context.Context, code string) (*models.Account, error)

	// Update writes account only if the stored version still equals
	// account.Version. Unknown id yields common.ErrorNotFound, a stale
	// version yields common.ErrVersionConflict.
	Update(ctx context.Context, account *models.Account) (*models.Account, error)

	// ListAll returns every account ordered by id, as of the call.
	ListAll(ctx context.Context) ([]*models.Account, error)
}
