package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnparsable is returned by [Inspect] when a structurally valid token does
// not carry decodable claims.
var ErrUnparsable = errors.New("token claims unparsable")

// ValidFormat reports whether s splits into exactly three non-empty
// dot-separated segments. It performs no decoding and no signature checks.
func ValidFormat(s string) bool {
	if s == "" {
		return false
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Claims is the unverified claim set peeked out of a token by [Inspect].
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Inspect decodes a token's claims WITHOUT verifying its signature. The
// result is advisory only — expiry hints, audit metadata — and must never
// feed an access decision. Tokens that pass [ValidFormat] but do not decode
// return [ErrUnparsable]; callers treat that as a non-fatal condition.
func Inspect(s string) (Claims, error) {
	if !ValidFormat(s) {
		return Claims{}, ErrUnparsable
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s, claims); err != nil {
		return Claims{}, errors.Join(ErrUnparsable, err)
	}

	var out Claims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}

	return out, nil
}

// Expired reports whether the token's unverified exp claim is in the past.
// A token without a decodable exp is never reported expired here; only the
// backend can pronounce it dead.
func Expired(s string, now time.Time) bool {
	c, err := Inspect(s)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Before(now)
}
