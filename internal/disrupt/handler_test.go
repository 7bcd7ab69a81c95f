package disrupt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantara/routeguard/internal/cache"
	"github.com/quantara/routeguard/pkg/route"
)

func computeHMAC(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("webhook-secret-123")
	payload := []byte(`{"kind":"road_closure"}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		secret    []byte
		wantErr   bool
	}{
		{
			name:      "valid signature",
			payload:   payload,
			signature: computeHMAC(payload, secret),
			secret:    secret,
			wantErr:   false,
		},
		{
			name:      "wrong secret",
			payload:   payload,
			signature: computeHMAC(payload, []byte("wrong-secret")),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "tampered payload",
			payload:   []byte(`{"kind":"weather"}`),
			signature: computeHMAC(payload, secret),
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "missing sha256= prefix",
			payload:   payload,
			signature: "not-a-valid-sig",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "invalid hex after prefix",
			payload:   payload,
			signature: "sha256=zzzz",
			secret:    secret,
			wantErr:   true,
		},
		{
			name:      "empty signature",
			payload:   payload,
			signature: "",
			secret:    secret,
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifySignature(tc.payload, tc.signature, tc.secret)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseEvent_Disruption(t *testing.T) {
	payload := DisruptionEvent{
		Kind:        "road_closure",
		Severity:    "high",
		Corridor:    []string{"Delhi", "Jaipur"},
		Pairs:       []ODPair{{Origin: "Delhi", Destination: "Mumbai"}},
		Description: "bridge collapse on NH48",
		ReportedAt:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	event, err := ParseEvent("disruption", data)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}

	d, ok := event.(*DisruptionEvent)
	if !ok {
		t.Fatalf("expected *DisruptionEvent, got %T", event)
	}
	if d.Kind != "road_closure" {
		t.Errorf("kind = %q, want road_closure", d.Kind)
	}
	if len(d.Pairs) != 1 || d.Pairs[0].Destination != "Mumbai" {
		t.Errorf("pairs = %+v, want one Delhi-Mumbai pair", d.Pairs)
	}
}

func TestParseEvent_UnsupportedType(t *testing.T) {
	_, err := ParseEvent("unknown_event", []byte(`{}`))
	if err == nil {
		t.Error("expected error for unsupported event type, got nil")
	}
}

func TestParseEvent_InvalidJSON(t *testing.T) {
	types := []string{"disruption", "trip_update"}
	for _, eventType := range types {
		t.Run(eventType, func(t *testing.T) {
			_, err := ParseEvent(eventType, []byte(`{invalid json`))
			if err == nil {
				t.Errorf("expected error parsing invalid JSON for %s, got nil", eventType)
			}
		})
	}
}

func TestHandlerRejectsBadSignature(t *testing.T) {
	h := NewHandler([]byte("secret"), cache.NewRouteCache(10, 0), nil, nil)

	body := []byte(`{"kind":"weather"}`)
	req := httptest.NewRequest("POST", "/webhooks/disruptions", bytes.NewReader(body))
	req.Header.Set("X-Routeguard-Signature", "sha256=deadbeef")
	req.Header.Set("X-Routeguard-Event", "disruption")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 401 {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandlerInvalidatesAffectedPairs(t *testing.T) {
	secret := []byte("secret")
	routes := cache.NewRouteCache(10, 0)
	routes.Put("delhi_mumbai", &cache.Entry{Set: &route.CandidateSet{Origin: route.Place{Name: "Delhi"}, Destination: route.Place{Name: "Mumbai"}}})
	routes.Put("chennai_delhi", &cache.Entry{Set: &route.CandidateSet{Origin: route.Place{Name: "Delhi"}, Destination: route.Place{Name: "Chennai"}}})

	h := NewHandler(secret, routes, nil, nil)

	body, _ := json.Marshal(DisruptionEvent{
		Kind:  "road_closure",
		Pairs: []ODPair{{Origin: "Mumbai", Destination: "Delhi"}},
	})
	req := httptest.NewRequest("POST", "/webhooks/disruptions", bytes.NewReader(body))
	req.Header.Set("X-Routeguard-Signature", computeHMAC(body, secret))
	req.Header.Set("X-Routeguard-Event", "disruption")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 202 {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	// The affected pair is dropped regardless of od order.
	if routes.Get("delhi_mumbai") != nil {
		t.Error("expected delhi_mumbai to be invalidated")
	}
	if routes.Get("chennai_delhi") == nil {
		t.Error("expected unrelated pair to survive")
	}
}

func TestHandlerRejectsMissingEventHeader(t *testing.T) {
	secret := []byte("secret")
	h := NewHandler(secret, nil, nil, nil)

	body := []byte(`{}`)
	req := httptest.NewRequest("POST", "/webhooks/disruptions", bytes.NewReader(body))
	req.Header.Set("X-Routeguard-Signature", computeHMAC(body, secret))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
