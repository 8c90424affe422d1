// Package identity authenticates callers with HS256 bearer tokens and
// answers permission checks from the token's claims. The verified principal
// travels in the request context.
package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

const minKeyLength = 32

// Config holds token verification settings. SigningKey is a secret and is
// only ever read from the environment.
type Config struct {
	SigningKey string        `env:"SCOREBOOK_AUTH_SIGNING_KEY,required" masq:"secret"`
	Issuer     string        `env:"SCOREBOOK_AUTH_ISSUER"               envDefault:"scorebook"`
	Audience   string        `env:"SCOREBOOK_AUTH_AUDIENCE"             envDefault:"scorebook-api"`
	Leeway     time.Duration `env:"SCOREBOOK_AUTH_LEEWAY"               envDefault:"30s"`
}

// LoadConfigFromEnv reads Config and rejects short signing keys.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse auth env: %w", err)
	}
	if len(cfg.SigningKey) < minKeyLength {
		return Config{}, fmt.Errorf("SCOREBOOK_AUTH_SIGNING_KEY must be at least %d bytes", minKeyLength)
	}
	return cfg, nil
}

// Claims are the token claims. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// JWT verifies and issues tokens and implements ports.IdentitySource over
// the principal stored by WithUser.
type JWT struct {
	cfg Config
	now func() time.Time
}

var _ ports.IdentitySource = (*JWT)(nil)

// NewJWT returns a verifier for cfg. A nil now uses time.Now.
func NewJWT(cfg Config, now func() time.Time) *JWT {
	if now == nil {
		now = time.Now
	}
	return &JWT{cfg: cfg, now: now}
}

// Verify parses token and returns its principal. Every failure wraps
// domain.ErrUnauthenticated.
func (j *JWT) Verify(token string) (*ports.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrUnauthenticated)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(j.cfg.SigningKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.cfg.Issuer),
		jwt.WithAudience(j.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(j.cfg.Leeway),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthenticated, describe(err))
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: token subject is required", domain.ErrUnauthenticated)
	}

	return &ports.User{
		ID:          claims.Subject,
		Name:        claims.Name,
		Permissions: slices.Clone(claims.Permissions),
	}, nil
}

// Issue signs a token for user valid for ttl.
func (j *JWT) Issue(user ports.User, ttl time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    j.cfg.Issuer,
			Audience:  jwt.ClaimStrings{j.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:        user.Name,
		Permissions: user.Permissions,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.cfg.SigningKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// CurrentUser returns the principal stored in ctx.
func (j *JWT) CurrentUser(ctx context.Context) (*ports.User, error) {
	if u, ok := UserFromContext(ctx); ok {
		return u, nil
	}
	return nil, domain.ErrUnauthenticated
}

// HasPermission reports whether the principal in ctx is userID and holds
// action. Only the calling user's permissions are known.
func (j *JWT) HasPermission(ctx context.Context, userID, action string) (bool, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return false, domain.ErrUnauthenticated
	}
	if u.ID != userID {
		return false, nil
	}
	return slices.Contains(u.Permissions, action) || slices.Contains(u.Permissions, "*"), nil
}

// describe keeps token failures short and free of token content.
func describe(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token is expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token is not valid yet"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "token issuer mismatch"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "token audience mismatch"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "token algorithm is not accepted"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "token is missing a required claim"
	default:
		return "token is malformed"
	}
}
