// Package auth issues and verifies the bearer tokens returned by signup and
// login, and carries the authenticated user id through request contexts.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const userIDKey contextKey = "userId"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of a token. UserID is the id of the token's owner.
type Claims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, ok is false for
// anonymous requests.
func UserIDFromContext(ctx context.Context) (userID int, ok bool) {
	userID, ok = ctx.Value(userIDKey).(int)
	return userID, ok
}

// IssueToken signs an HS256 token for userID with secret.
func IssueToken(secret []byte, userID int) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

// ParseToken verifies tokenString against secret and returns the user id it
// was issued for.
func ParseToken(secret []byte, tokenString string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword returns true iff password matches hash.
func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
