// Package qrcode signs the tokens printed as QR codes on tables.  Scanning
// a code hits GET /tables/scan?token=... which resolves the table.
package qrcode

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid table token")

// TableClaims identify a table.  The subject holds the table ID.
type TableClaims struct {
	Number int `json:"tbl"`
	jwt.RegisteredClaims
}

// NewTableToken builds and signs an HS256 token for a table.  Printed
// codes do not expire.
func NewTableToken(secret string, tableID uint64, number int) (string, error) {
	claims := TableClaims{
		Number: number,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(tableID, 10),
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseTableToken verifies a token and returns the table ID and number it
// was issued for.
func ParseTableToken(secret, raw string) (uint64, int, error) {
	var claims TableClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, 0, ErrInvalidToken
	}
	return id, claims.Number, nil
}

// TableURL appends the token to the scan endpoint URL.
func TableURL(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
