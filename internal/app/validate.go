package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/scorebook/internal/domain"
	"github.com/jsamuelsen11/scorebook/internal/ports"
)

// validatePlateAppearance checks the command shape. Rules that depend on the
// current bases and outs are enforced by the inning aggregate.
func validatePlateAppearance(cmd ports.RecordPlateAppearanceCommand) error {
	fields := map[string]string{}
	if strings.TrimSpace(cmd.MatchID) == "" {
		fields["match_id"] = domain.MsgRequired
	}
	if strings.TrimSpace(cmd.BatterID) == "" {
		fields["batter_id"] = domain.MsgRequired
	}
	if !cmd.Outcome.IsValid() {
		fields["outcome"] = domain.MsgUnknownValue
	}
	for i, a := range cmd.Advances {
		key := fmt.Sprintf("advances[%d]", i)
		if !a.From.IsOrigin() {
			fields[key+".from"] = domain.MsgUnknownValue
		}
		if !a.To.IsDestination() {
			fields[key+".to"] = domain.MsgUnknownValue
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateSubstitution(cmd ports.SubstitutePlayerCommand) error {
	fields := map[string]string{}
	if strings.TrimSpace(cmd.MatchID) == "" {
		fields["match_id"] = domain.MsgRequired
	}
	if !cmd.Side.IsValid() {
		fields["side"] = domain.MsgUnknownValue
	}
	if cmd.Slot < 1 {
		fields["slot"] = domain.MsgMustBePositive
	}
	if strings.TrimSpace(cmd.Incoming.ID) == "" {
		fields["incoming.id"] = domain.MsgRequired
	}
	if !cmd.Position.IsValid() {
		fields["position"] = domain.MsgUnknownValue
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateLimit(matchID string, limit int) (int, error) {
	fields := map[string]string{}
	if strings.TrimSpace(matchID) == "" {
		fields["match_id"] = domain.MsgRequired
	}
	if limit < 0 {
		fields["limit"] = "must not be negative"
	}
	if len(fields) > 0 {
		return 0, &domain.ValidationError{Fields: fields}
	}
	if limit == 0 {
		return 1, nil
	}
	return limit, nil
}

// joinValidation merges the field errors of several validation failures so
// a caller sees every problem at once. Any other error is returned as is.
func joinValidation(errs ...error) error {
	merged := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve.Fields {
			merged[k] = v
		}
	}
	if len(merged) > 0 {
		return &domain.ValidationError{Fields: merged}
	}
	return nil
}

// prefixFields qualifies the field keys of a validation error.
func prefixFields(prefix string, err error) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve.Fields))
	for k, v := range ve.Fields {
		fields[prefix+"."+k] = v
	}
	return &domain.ValidationError{Fields: fields}
}
