package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

const accountColumns = `id, username, email, password_hash, enabled,
		 verification_code, verification_expires_at, version, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	var (
		a       models.Account
		code    sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(&a.ID, &a.UserName, &a.Email, &a.PasswordHash, &a.Enabled,
		&code, &expires, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if code.Valid && expires.Valid {
		a.SetVerification(code.String, expires.Time)
	}
	return &a, nil
}

func nullCode(a *models.Account) sql.NullString {
	if a.VerificationCode == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *a.VerificationCode, Valid: true}
}

func nullExpiry(a *models.Account) sql.NullTime {
	if a.VerificationExpiresAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *a.VerificationExpiresAt, Valid: true}
}

// dbError classifies a driver error: unique violations become
// common.ErrConflict, check violations common.ErrValidation, everything else
// common.ErrUnavailable.
func dbError(err error) error {
	if constraint, ok := dbx.IsUniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", common.ErrConflict, constraint)
	}
	if constraint, ok := dbx.IsCheckViolation(err); ok {
		return fmt.Errorf("%w: %s", common.ErrValidation, constraint)
	}
	return fmt.Errorf("db error: %w: %w", common.ErrUnavailable, err)
}

func (r *PostgresRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (username, email, password_hash, enabled, verification_code, verification_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, version, created_at, updated_at
		 `

	a := account.Clone()
	a.Email = models.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return nil, err
	}

	err := r.db.QueryRowContext(ctx, query,
		a.UserName, a.Email, a.PasswordHash, a.Enabled, nullCode(a), nullExpiry(a),
	).Scan(&a.ID, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, dbError(err)
	}

	return a, nil
}

func (r *PostgresRepository) findOne(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		 WHERE ` + where

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, `email = $1`, models.NormalizeEmail(email))
}

func (r *PostgresRepository) FindByUserName(ctx context.Context, userName string) (*models.Account, error) {
	return r.findOne(ctx, `username = $1`, userName)
}

func (r *PostgresRepository) FindByVerificationCode(ctx context.Context, code string) (*models.Account, error) {
	return r.findOne(ctx, `verification_code = $1`, code)
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET username = $2, email = $3, password_hash = $4, enabled = $5,
		     verification_code = $6, verification_expires_at = $7,
		     version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $8
		 RETURNING version, updated_at
		 `

	a := account.Clone()
	a.Email = models.NormalizeEmail(a.Email)
	if err := a.Validate(); err != nil {
		return nil, err
	}

	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.UserName, a.Email, a.PasswordHash, a.Enabled, nullCode(a), nullExpiry(a), a.Version,
	).Scan(&a.Version, &updatedAt)
	if err == nil {
		a.UpdatedAt = updatedAt
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, dbError(err)
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, a.ID).Scan(&exists)
	if err != nil {
		return nil, dbError(err)
	}
	if !exists {
		return nil, common.ErrorNotFound
	}
	return nil, common.ErrVersionConflict
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, dbError(err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}

	return result, nil
}
