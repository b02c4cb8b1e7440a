package auth

import (
	"strings"

	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the token portion of an Authorization header
// value. The scheme check is exact: "Bearer" followed by a single space, no
// other casing. The remainder is returned unmodified; callers must not trim
// or normalize it.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("Missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperrors.NewUnauthorized("Invalid authorization format")
	}
	return header[len(bearerPrefix):], nil
}
