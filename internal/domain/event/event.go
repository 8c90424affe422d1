// Package event defines the closed set of domain events raised by the match,
// roster and inning aggregates, the envelope that carries them through the
// log, and the JSON codec used by storage adapters.
//
// Every payload implements the sealed [Payload] interface. Code that projects
// events switches over the concrete payload types; the gochecksumtype linter
// reports any switch that misses a variant, so adding an event kind forces a
// review of every consumer.
package event

import "time"

// Type is the stable tag persisted alongside each event.
type Type string

const (
	TypeMatchStarted  Type = "match.started"
	TypeRunScored     Type = "match.run_scored"
	TypeMatchEnded    Type = "match.ended"
	TypeScoreRestored Type = "match.score_restored"

	TypeRosterCreated     Type = "roster.created"
	TypeLineupEntryAdded  Type = "roster.lineup_entry_added"
	TypePlayerSubstituted Type = "roster.player_substituted"
	TypeRosterRestored    Type = "roster.restored"

	TypeInningOpened             Type = "inning.opened"
	TypeRunnerAdvanced           Type = "inning.runner_advanced"
	TypePlateAppearanceCompleted Type = "inning.plate_appearance_completed"
	TypeHalfInningEnded          Type = "inning.half_inning_ended"
	TypeRunnerSubstituted        Type = "inning.runner_substituted"
	TypeInningRestored           Type = "inning.restored"
)

// StreamType names the aggregate family a stream belongs to.
type StreamType string

const (
	StreamMatch  StreamType = "match"
	StreamRoster StreamType = "roster"
	StreamInning StreamType = "inning"
)

// Event is an immutable record appended to an aggregate's stream. Seq is the
// 1-based position within the stream and always equals the aggregate version
// produced by applying the event.
type Event struct {
	ID          string
	AggregateID string
	StreamType  StreamType
	Seq         int64
	Type        Type
	Payload     Payload
	RecordedAt  time.Time
	CausationID string
}

// New builds an unstamped event. ID, RecordedAt and CausationID are assigned
// when the event is persisted.
func New(aggregateID string, stream StreamType, seq int64, p Payload) Event {
	return Event{
		AggregateID: aggregateID,
		StreamType:  stream,
		Seq:         seq,
		Type:        p.EventType(),
		Payload:     p,
	}
}

// Stamp returns a copy of e carrying persistence metadata.
func (e Event) Stamp(id, causationID string, at time.Time) Event {
	e.ID = id
	e.CausationID = causationID
	e.RecordedAt = at.UTC()
	return e
}

// Recorder collects events raised by an aggregate until the caller flushes
// them for persistence. Aggregates embed it.
type Recorder struct {
	pending []Event
}

// Record queues an already-applied event.
func (r *Recorder) Record(e Event) {
	r.pending = append(r.pending, e)
}

// Pending returns a copy of the queued events without clearing them.
func (r *Recorder) Pending() []Event {
	out := make([]Event, len(r.pending))
	copy(out, r.pending)
	return out
}

// Flush returns the queued events and clears the queue.
func (r *Recorder) Flush() []Event {
	out := r.pending
	r.pending = nil
	return out
}
