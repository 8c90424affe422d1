package play

// Position is a defensive assignment. An empty Position means the player
// bats without taking the field.
type Position string

const (
	PositionPitcher     Position = "P"
	PositionCatcher     Position = "C"
	PositionFirstBase   Position = "1B"
	PositionSecondBase  Position = "2B"
	PositionThirdBase   Position = "3B"
	PositionShortstop   Position = "SS"
	PositionLeftField   Position = "LF"
	PositionCenterField Position = "CF"
	PositionRightField  Position = "RF"
	PositionShortField  Position = "SF"
	PositionDesignated  Position = "DP"
	PositionExtraPlayer Position = "EP"
	PositionNone        Position = ""
)

// IsValid returns true for PositionNone and every defined position.
func (p Position) IsValid() bool {
	switch p {
	case PositionNone, PositionPitcher, PositionCatcher, PositionFirstBase, PositionSecondBase,
		PositionThirdBase, PositionShortstop, PositionLeftField, PositionCenterField,
		PositionRightField, PositionShortField, PositionDesignated, PositionExtraPlayer:
		return true
	default:
		return false
	}
}

// Player is a person known to a roster. Jersey is a string because "0" and
// "00" are different numbers.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Jersey string `json:"jersey,omitempty"`
}
