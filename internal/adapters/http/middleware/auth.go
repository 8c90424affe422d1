package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/adapters/http/dto"
	"github.com/jsamuelsen11/scorebook/internal/adapters/identity"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/platform/logging"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	Verify(token string) (*ports.User, error)
}

// Authenticate verifies an "Authorization: Bearer" token and stores the
// principal with identity.WithUser. Requests without the header pass
// through anonymous; operations that need a user reject them later. A
// present but invalid credential is answered with 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				dto.WriteErrorResponse(w, r, fmt.Errorf("%w: authorization scheme must be Bearer", domain.ErrUnauthenticated))
				return
			}

			user, err := verifier.Verify(token)
			if err != nil {
				logging.FromContext(r.Context()).WarnContext(r.Context(), "rejected bearer token",
					slog.String("path", r.URL.Path),
					slog.Any("error", err),
				)
				dto.WriteErrorResponse(w, r, err)
				return
			}

			ctx := identity.WithUser(r.Context(), user)
			ctx = logging.With(ctx, slog.String("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
