// Package play holds the scoring vocabulary shared by every aggregate: teams,
// halves, bases, plate-appearance outcomes, runner advances and players.
// It has no dependencies on other domain packages.
package play

// Side identifies one of the two teams in a match.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// IsValid returns true if the side is one of the defined constants.
func (s Side) IsValid() bool {
	return s == SideHome || s == SideAway
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// String implements fmt.Stringer.
func (s Side) String() string {
	return string(s)
}

// Half is the top or bottom of an inning.
type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// IsValid returns true if the half is one of the defined constants.
func (h Half) IsValid() bool {
	return h == HalfTop || h == HalfBottom
}

// BattingSide returns the team on offense. The visitors bat in the top half.
func (h Half) BattingSide() Side {
	if h == HalfBottom {
		return SideHome
	}
	return SideAway
}

// String implements fmt.Stringer.
func (h Half) String() string {
	return string(h)
}

// Base is a runner origin or destination. Batter is only valid as an origin;
// Home and Out are only valid as destinations.
type Base string

const (
	BaseBatter Base = "batter"
	BaseFirst  Base = "first"
	BaseSecond Base = "second"
	BaseThird  Base = "third"
	BaseHome   Base = "home"
	BaseOut    Base = "out"
)

// Rank orders bases along the running path. Out has no rank and returns -1.
func (b Base) Rank() int {
	switch b {
	case BaseBatter:
		return 0
	case BaseFirst:
		return 1
	case BaseSecond:
		return 2
	case BaseThird:
		return 3
	case BaseHome:
		return 4
	default:
		return -1
	}
}

// IsOrigin reports whether a runner can start an advance from b.
func (b Base) IsOrigin() bool {
	switch b {
	case BaseBatter, BaseFirst, BaseSecond, BaseThird:
		return true
	default:
		return false
	}
}

// IsDestination reports whether an advance can end at b.
func (b Base) IsDestination() bool {
	switch b {
	case BaseFirst, BaseSecond, BaseThird, BaseHome, BaseOut:
		return true
	default:
		return false
	}
}

// IsOccupiable reports whether a runner can stand on b between plays.
func (b Base) IsOccupiable() bool {
	switch b {
	case BaseFirst, BaseSecond, BaseThird:
		return true
	default:
		return false
	}
}

// Index returns the zero-based slot of an occupiable base (first=0). It
// returns -1 for the batter's box, home and out.
func (b Base) Index() int {
	if !b.IsOccupiable() {
		return -1
	}
	return b.Rank() - 1
}

// String implements fmt.Stringer.
func (b Base) String() string {
	return string(b)
}

// BaseAt returns the occupiable base for a zero-based index.
func BaseAt(i int) Base {
	switch i {
	case 0:
		return BaseFirst
	case 1:
		return BaseSecond
	case 2:
		return BaseThird
	default:
		return ""
	}
}

// Advance is one runner's movement during a plate appearance. The batter is
// represented with From set to BaseBatter.
type Advance struct {
	RunnerID string `json:"runner_id"`
	From     Base   `json:"from"`
	To       Base   `json:"to"`
}

// Scores reports whether the advance ends at home plate.
func (a Advance) Scores() bool {
	return a.To == BaseHome
}

// IsOut reports whether the runner was put out.
func (a Advance) IsOut() bool {
	return a.To == BaseOut
}

// IsBatter reports whether the advance belongs to the batter.
func (a Advance) IsBatter() bool {
	return a.From == BaseBatter
}

// MaxAdvances is the largest number of advances a single plate appearance can
// carry: three runners plus the batter.
const MaxAdvances = 4
