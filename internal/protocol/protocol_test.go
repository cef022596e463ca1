package protocol

import (
	"encoding/json"
	"testing"

	"tactics-arena/internal/model"
)

func TestEncodeDecodeEnvelopeRoundtrip(t *testing.T) {
	x, y := 2, 3
	payload := ActionPayload{
		MatchID:  "m1",
		PlayerID: model.P1,
		Action:   model.Action{Type: model.ActionMove, ActingUnitID: "P1-hero", TargetX: &x, TargetY: &y},
	}

	raw, err := Encode(TypeAction, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != TypeAction {
		t.Fatalf("expected type %q, got %q", TypeAction, env.Type)
	}

	var decoded ActionPayload
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.MatchID != "m1" || decoded.PlayerID != model.P1 {
		t.Fatalf("payload mismatch: %+v", decoded)
	}
	if decoded.Action.TargetX == nil || *decoded.Action.TargetX != 2 {
		t.Fatalf("target x not preserved: %+v", decoded.Action)
	}
}

func TestDecodeEnvelopeRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Fatalf("expected an error decoding malformed JSON")
	}
}
