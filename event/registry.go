package event

import (
	"encoding/json"
	"fmt"
	"sort"
)

// decoders maps each wire name to its payload decoder
var decoders = map[Type]func([]byte) (Payload, error){
	Collision:         decodeAs[CollisionPayload],
	CollisionAvoided:  decodeAs[CollisionAvoidedPayload],
	ObjectFollowed:    decodeAs[ObjectFollowedPayload],
	PatternIdentified: decodeAs[PatternIdentifiedPayload],
	DistractorIgnored: decodeAs[DistractorIgnoredPayload],
}

func decodeAs[T Payload](raw []byte) (Payload, error) {
	var p T
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Known reports whether t is a registered event type
func Known(t Type) bool {
	_, ok := decoders[t]
	return ok
}

// Types returns all registered event types in sorted order
func Types() []Type {
	out := make([]Type, 0, len(decoders))
	for t := range decoders {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DecodePayload decodes raw JSON into the payload struct registered for t
func DecodePayload(t Type, raw []byte) (Payload, error) {
	dec, ok := decoders[t]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", t)
	}
	p, err := dec(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}
