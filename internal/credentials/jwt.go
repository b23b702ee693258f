package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthTokenValid reports whether the stored authenticated-user token looks
// usable at the given time, by decoding its exp claim without verifying the
// signature. Verification happens server-side; this only avoids sending a
// token the server is guaranteed to reject.
func (c Credentials) AuthTokenValid(now time.Time) bool {
	if c.AuthToken == "" {
		return false
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(c.AuthToken, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Before(exp.Time)
}
