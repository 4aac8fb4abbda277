package utils

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSubject returns the "sub" claim of a JWT without verifying its signature.
// It is only meant for log correlation; the warehouse is what validates the token.
// Opaque tokens and malformed JWTs yield "".
func TokenSubject(token string) string {
	if strings.Count(token, ".") != 2 {
		return ""
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
