package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the persisted JSON shape of an Event.
type envelope struct {
	ID          string          `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	StreamType  StreamType      `json:"stream_type"`
	Seq         int64           `json:"seq"`
	Type        Type            `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	RecordedAt  time.Time       `json:"recorded_at"`
	CausationID string          `json:"causation_id,omitempty"`
}

// MarshalJSON encodes the event with its payload nested under "payload".
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("event %s/%d: payload is nil", e.AggregateID, e.Seq)
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", e.Type, err)
	}
	return json.Marshal(envelope{
		ID:          e.ID,
		AggregateID: e.AggregateID,
		StreamType:  e.StreamType,
		Seq:         e.Seq,
		Type:        e.Type,
		Payload:     raw,
		RecordedAt:  e.RecordedAt,
		CausationID: e.CausationID,
	})
}

// UnmarshalJSON decodes an envelope and its type-specific payload.
func (e *Event) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding event envelope: %w", err)
	}
	p, err := DecodePayload(env.Type, env.Payload)
	if err != nil {
		return err
	}
	*e = Event{
		ID:          env.ID,
		AggregateID: env.AggregateID,
		StreamType:  env.StreamType,
		Seq:         env.Seq,
		Type:        env.Type,
		Payload:     p,
		RecordedAt:  env.RecordedAt,
		CausationID: env.CausationID,
	}
	return nil
}

// DecodePayload decodes raw JSON into the payload variant registered for t.
func DecodePayload(t Type, raw []byte) (Payload, error) {
	switch t {
	case TypeMatchStarted:
		return decode[MatchStarted](t, raw)
	case TypeRunScored:
		return decode[RunScored](t, raw)
	case TypeMatchEnded:
		return decode[MatchEnded](t, raw)
	case TypeScoreRestored:
		return decode[ScoreRestored](t, raw)
	case TypeRosterCreated:
		return decode[RosterCreated](t, raw)
	case TypeLineupEntryAdded:
		return decode[LineupEntryAdded](t, raw)
	case TypePlayerSubstituted:
		return decode[PlayerSubstituted](t, raw)
	case TypeRosterRestored:
		return decode[RosterRestored](t, raw)
	case TypeInningOpened:
		return decode[InningOpened](t, raw)
	case TypeRunnerAdvanced:
		return decode[RunnerAdvanced](t, raw)
	case TypePlateAppearanceCompleted:
		return decode[PlateAppearanceCompleted](t, raw)
	case TypeHalfInningEnded:
		return decode[HalfInningEnded](t, raw)
	case TypeRunnerSubstituted:
		return decode[RunnerSubstituted](t, raw)
	case TypeInningRestored:
		return decode[InningRestored](t, raw)
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}
}

func decode[P Payload](t Type, raw []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", t, err)
	}
	return p, nil
}
