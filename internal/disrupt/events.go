// Package disrupt handles incoming disruption-feed webhook events.
package disrupt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/quantara/routeguard/pkg/route"
)

// VerifySignature validates the X-Routeguard-Signature header against the payload.
func VerifySignature(payload []byte, signature string, secret []byte) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return fmt.Errorf("invalid signature format")
	}
	sig, err := hex.DecodeString(signature[7:])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(sig, expected) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// ODPair names an origin-destination pair affected by a disruption.
type ODPair struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// DisruptionEvent reports an incident along a corridor. Affected od-pairs
// have their cached analyses invalidated so the next analysis re-fetches
// routes and news. When the event names an active trip, the handler also
// runs a reroute comparison for the remaining leg and returns the report.
type DisruptionEvent struct {
	Kind        string    `json:"kind"` // road_closure, weather, accident, strike
	Severity    string    `json:"severity"`
	Corridor    []string  `json:"corridor"`
	Pairs       []ODPair  `json:"affected_pairs"`
	Description string    `json:"description"`
	ReportedAt  time.Time `json:"reported_at"`

	// Optional active-trip context for an immediate reroute comparison.
	TripReference   string        `json:"trip_reference,omitempty"`
	CurrentPosition string        `json:"current_position,omitempty"`
	Traveled        route.Metrics `json:"traveled,omitempty"`
}

// TripUpdateEvent reports a trip lifecycle change from the fleet feed.
type TripUpdateEvent struct {
	TripReference string `json:"trip_reference"`
	Status        string `json:"status"`
}

// ParseEvent parses a webhook payload based on the event type.
func ParseEvent(eventType string, payload []byte) (interface{}, error) {
	switch eventType {
	case "disruption":
		var e DisruptionEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse disruption event: %w", err)
		}
		return &e, nil
	case "trip_update":
		var e TripUpdateEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse trip_update event: %w", err)
		}
		return &e, nil
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}
