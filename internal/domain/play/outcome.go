package play

// Outcome is the scored result of a plate appearance.
type Outcome string

const (
	OutcomeSingle         Outcome = "single"
	OutcomeDouble         Outcome = "double"
	OutcomeTriple         Outcome = "triple"
	OutcomeHomeRun        Outcome = "home_run"
	OutcomeWalk           Outcome = "walk"
	OutcomeHitByPitch     Outcome = "hit_by_pitch"
	OutcomeError          Outcome = "error"
	OutcomeFieldersChoice Outcome = "fielders_choice"
	OutcomeStrikeout      Outcome = "strikeout"
	OutcomeGroundOut      Outcome = "ground_out"
	OutcomeFlyOut         Outcome = "fly_out"
	OutcomeLineOut        Outcome = "line_out"
	OutcomePopOut         Outcome = "pop_out"
	OutcomeSacrificeFly   Outcome = "sacrifice_fly"
	OutcomeSacrificeBunt  Outcome = "sacrifice_bunt"
	OutcomeDoublePlay     Outcome = "double_play"
	OutcomeTriplePlay     Outcome = "triple_play"
)

// IsValid returns true if the outcome is one of the defined constants.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeSingle, OutcomeDouble, OutcomeTriple, OutcomeHomeRun,
		OutcomeWalk, OutcomeHitByPitch, OutcomeError, OutcomeFieldersChoice,
		OutcomeStrikeout, OutcomeGroundOut, OutcomeFlyOut, OutcomeLineOut, OutcomePopOut,
		OutcomeSacrificeFly, OutcomeSacrificeBunt, OutcomeDoublePlay, OutcomeTriplePlay:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	return string(o)
}

// IsHit reports whether the outcome is a base hit.
func (o Outcome) IsHit() bool {
	switch o {
	case OutcomeSingle, OutcomeDouble, OutcomeTriple, OutcomeHomeRun:
		return true
	default:
		return false
	}
}

// IsFreePass reports whether the batter was awarded first base without
// putting the ball in play.
func (o Outcome) IsFreePass() bool {
	return o == OutcomeWalk || o == OutcomeHitByPitch
}

// BatterDestination is where the batter ends up when a command does not
// list the batter's own advance.
func (o Outcome) BatterDestination() Base {
	switch o {
	case OutcomeSingle, OutcomeWalk, OutcomeHitByPitch, OutcomeError, OutcomeFieldersChoice:
		return BaseFirst
	case OutcomeDouble:
		return BaseSecond
	case OutcomeTriple:
		return BaseThird
	case OutcomeHomeRun:
		return BaseHome
	default:
		return BaseOut
	}
}

// MinOuts is the fewest outs the outcome can produce.
func (o Outcome) MinOuts() int {
	switch o {
	case OutcomeStrikeout, OutcomeGroundOut, OutcomeFlyOut, OutcomeLineOut, OutcomePopOut,
		OutcomeSacrificeFly, OutcomeSacrificeBunt:
		return 1
	case OutcomeDoublePlay:
		return 2
	case OutcomeTriplePlay:
		return 3
	default:
		return 0
	}
}

// RBI returns the runs batted in credited for a plate appearance. Runs that
// score on an error are unearned by the batter; a walk or hit batsman can
// force in at most one run.
func RBI(o Outcome, runs int) int {
	switch {
	case runs <= 0:
		return 0
	case o == OutcomeError:
		return 0
	case o.IsFreePass():
		return 1
	default:
		return runs
	}
}
