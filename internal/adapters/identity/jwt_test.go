package identity_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/scorebook/internal/adapters/identity"
	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

const testKey = "0123456789abcdef0123456789abcdef"

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() identity.Config {
	return identity.Config{SigningKey: testKey, Issuer: "scorebook", Audience: "scorebook-api"}
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWT_IssueThenVerify(t *testing.T) {
	t.Parallel()
	j := identity.NewJWT(testConfig(), fixedNow(epoch))

	token, err := j.Issue(ports.User{ID: "u-1", Name: "Scorer", Permissions: []string{ports.PermissionScoreMatch}}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	u, err := j.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if u.ID != "u-1" || u.Name != "Scorer" || len(u.Permissions) != 1 || u.Permissions[0] != ports.PermissionScoreMatch {
		t.Errorf("Verify() = %+v", u)
	}
}

func TestJWT_VerifyRejects(t *testing.T) {
	t.Parallel()
	issuer := identity.NewJWT(testConfig(), fixedNow(epoch))
	valid, err := issuer.Issue(ports.User{ID: "u-1"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	otherKey := testConfig()
	otherKey.SigningKey = strings.Repeat("x", 32)
	forged, _ := identity.NewJWT(otherKey, fixedNow(epoch)).Issue(ports.User{ID: "u-1"}, time.Hour)

	otherAudience := testConfig()
	otherAudience.Audience = "another-api"
	wrongAudience, _ := identity.NewJWT(otherAudience, fixedNow(epoch)).Issue(ports.User{ID: "u-1"}, time.Hour)

	noSubject, _ := issuer.Issue(ports.User{}, time.Hour)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    "scorebook",
		Audience:  jwt.ClaimStrings{"scorebook-api"},
		ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		now   time.Time
		want  string
	}{
		{name: "empty", token: " ", now: epoch, want: "token is required"},
		{name: "garbage", token: "not-a-token", now: epoch, want: "malformed"},
		{name: "expired", token: valid, now: epoch.Add(2 * time.Hour), want: "expired"},
		{name: "wrong key", token: forged, now: epoch, want: "signature"},
		{name: "wrong audience", token: wrongAudience, now: epoch, want: "audience"},
		{name: "no subject", token: noSubject, now: epoch, want: "subject"},
		{name: "alg none", token: none, now: epoch, want: "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := identity.NewJWT(testConfig(), fixedNow(tt.now)).Verify(tt.token)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("Verify() error = %v, want ErrUnauthenticated", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestJWT_LeewayAcceptsSlightlyExpired(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Leeway = time.Minute
	token, _ := identity.NewJWT(cfg, fixedNow(epoch)).Issue(ports.User{ID: "u-1"}, time.Hour)

	if _, err := identity.NewJWT(cfg, fixedNow(epoch.Add(time.Hour+30*time.Second))).Verify(token); err != nil {
		t.Errorf("Verify() error = %v, want acceptance within leeway", err)
	}
}

func TestJWT_IdentitySource(t *testing.T) {
	t.Parallel()
	j := identity.NewJWT(testConfig(), nil)
	ctx := identity.WithUser(context.Background(), &ports.User{ID: "u-1", Permissions: []string{ports.PermissionScoreMatch}})

	u, err := j.CurrentUser(ctx)
	if err != nil || u.ID != "u-1" {
		t.Fatalf("CurrentUser() = %+v, %v", u, err)
	}
	if ok, err := j.HasPermission(ctx, "u-1", ports.PermissionScoreMatch); err != nil || !ok {
		t.Errorf("HasPermission(own) = %v, %v; want true", ok, err)
	}
	if ok, _ := j.HasPermission(ctx, "u-1", "match:delete"); ok {
		t.Error("HasPermission(missing action) = true")
	}
	if ok, _ := j.HasPermission(ctx, "u-2", ports.PermissionScoreMatch); ok {
		t.Error("HasPermission(other user) = true")
	}

	if _, err := j.CurrentUser(context.Background()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("CurrentUser(empty) error = %v, want ErrUnauthenticated", err)
	}
	if _, err := j.HasPermission(context.Background(), "u-1", "x"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("HasPermission(empty) error = %v, want ErrUnauthenticated", err)
	}
}

func TestJWT_WildcardPermission(t *testing.T) {
	t.Parallel()
	ctx := identity.WithUser(context.Background(), &ports.User{ID: "admin", Permissions: []string{"*"}})

	if ok, _ := identity.NewJWT(testConfig(), nil).HasPermission(ctx, "admin", ports.PermissionScoreMatch); !ok {
		t.Error("HasPermission(*) = false, want true")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SCOREBOOK_AUTH_SIGNING_KEY", testKey)
	t.Setenv("SCOREBOOK_AUTH_AUDIENCE", "scores")

	cfg, err := identity.LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if cfg.Issuer != "scorebook" || cfg.Audience != "scores" || cfg.Leeway != 30*time.Second {
		t.Errorf("LoadConfigFromEnv() = %+v", cfg)
	}
}

func TestLoadConfigFromEnv_RejectsShortKey(t *testing.T) {
	t.Setenv("SCOREBOOK_AUTH_SIGNING_KEY", "short")

	if _, err := identity.LoadConfigFromEnv(); err == nil {
		t.Error("LoadConfigFromEnv() error = nil, want short key rejected")
	}
}
