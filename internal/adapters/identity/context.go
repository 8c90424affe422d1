package identity

import (
	"context"

	"github.com/jsamuelsen11/scorebook/internal/ports"
)

type userKey struct{}

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *ports.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the principal stored by WithUser.
func UserFromContext(ctx context.Context) (*ports.User, bool) {
	u, ok := ctx.Value(userKey{}).(*ports.User)
	return u, ok && u != nil
}
