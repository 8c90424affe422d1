package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen11/scorebook/internal/domain/match"
	"github.com/jsamuelsen11/scorebook/internal/domain/play"
)

// PermissionScoreMatch allows a user to run scoring commands and workflows.
const PermissionScoreMatch = "match:score"

// MatchNotification is the payload sent to subscribers when a match starts,
// ends or its score changes.
type MatchNotification struct {
	MatchID  string       `json:"match_id"`
	HomeTeam string       `json:"home_team"`
	AwayTeam string       `json:"away_team"`
	Status   match.Status `json:"status"`
	Score    match.Score  `json:"score"`
	Inning   int          `json:"inning,omitempty"`
	Half     play.Half    `json:"half,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	At       time.Time    `json:"at"`
}

// Notifier delivers match notifications to external subscribers.
// Implemented by the notify adapters; delivery failures are reported to the
// caller, which decides whether they matter.
type Notifier interface {
	NotifyMatchStarted(ctx context.Context, n MatchNotification) error
	NotifyMatchEnded(ctx context.Context, n MatchNotification) error
	NotifyScoreUpdate(ctx context.Context, n MatchNotification) error
}

// User is an authenticated principal.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// IdentitySource answers who is calling and what they may do.
type IdentitySource interface {
	// CurrentUser returns the principal attached to ctx or
	// domain.ErrUnauthenticated.
	CurrentUser(ctx context.Context) (*User, error)

	// HasPermission reports whether userID holds action.
	HasPermission(ctx context.Context, userID, action string) (bool, error)
}
