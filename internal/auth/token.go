package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every parse failure: malformed envelope,
// signature mismatch, expired timestamp or unexpected claim shape. Collapsing
// the causes keeps callers from probing validation internals.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified payload of an access token. Claims values are only
// ever produced by TokenManager.Parse; handlers never build them.
//
// IsAdmin is a snapshot taken at issuance and is not re-checked against the
// database, so a role revoked mid-lifetime stays effective until the token
// expires (at most the configured TTL).
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating HS256 JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}
}

// Generate builds and signs a token carrying the subject id and admin flag.
// Expiry is issuance time plus the configured TTL, in whole seconds.
func (tm *TokenManager) Generate(subjectID string, isAdmin bool) (string, time.Time, error) {
	expiresAt := tm.now().Add(tm.ttl).Truncate(time.Second)
	claims := &Claims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates the signature and expiry and returns the claims. Not-before
// and audience claims are deliberately not validated; tokens issued here never
// carry them and checking would only add cost on the hot path.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tm.now() }))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
