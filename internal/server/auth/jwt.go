// Package auth signs and validates session tokens.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// TokenIssuer is the signing collaborator used by the account service.
type TokenIssuer interface {
	Issue(accountID int64, ttl time.Duration) (string, error)
	Validate(token string) (int64, error)
}

// Claims carries the standard registered claims; the account id travels in
// Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTIssuer issues HS256 tokens.
type JWTIssuer struct {
	secret []byte
	issuer string
	clock  clockwork.Clock
}

func NewJWTIssuer(secret []byte, issuer string, clock clockwork.Clock) *JWTIssuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTIssuer{secret: secret, issuer: issuer, clock: clock}
}

func (j *JWTIssuer) Issue(accountID int64, ttl time.Duration) (string, error) {
	now := j.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(j.secret)
}

// Validate returns the account id carried by token. Expired tokens yield
// common.ErrTokenExpired; anything else that fails verification yields
// common.ErrInvalidToken.
func (j *JWTIssuer) Validate(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}
