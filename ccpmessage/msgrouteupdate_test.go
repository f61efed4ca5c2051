package ccpmessage

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/envelope"
)

// TestRouteUpdateRoundTrip tests route update request encode and decode
// including nested route, property, and withdrawn-route order.
func TestRouteUpdateRoundTrip(t *testing.T) {
	authedProperty, err := NewRouteProperty(0, true, false, false,
		BytesPropertyValue(nil))
	if err != nil {
		t.Fatalf("NewRouteProperty error %v", err)
	}
	textProperty, err := NewRouteProperty(500, false, true, true,
		UTF8PropertyValue("annotated elsewhere"))
	if err != nil {
		t.Fatalf("NewRouteProperty error %v", err)
	}

	tests := []*MsgRouteUpdateRequest{
		NewMsgRouteUpdateRequest(
			mustID(t, "00000000-0000-0000-0000-000000000000"),
			0, 0, 0, nil, nil),
		NewMsgRouteUpdateRequest(
			mustID(t, "70d1a328-a05c-bebc-32e2-3b9da0f9f119"),
			52, 46, 52,
			[]*Route{
				{
					Prefix: "g.eu",
					Path:   []string{"g.eu.hub", "g.transit", "g.eu.hub2"},
					Auth:   bytes.Repeat([]byte{0x11}, RouteAuthLength),
					Properties: []*RouteProperty{
						authedProperty, textProperty,
					},
				},
				{
					Prefix: "g.asia",
					Path:   nil,
					Auth:   make([]byte, RouteAuthLength),
				},
			},
			[]string{"g.na.old", "g.sa.stale", "g.na.older"}),
	}

	t.Logf("Running %d tests", len(tests))
	for i, msg := range tests {
		packet, err := msg.Serialize()
		if err != nil {
			t.Errorf("Serialize #%d error %v", i, err)
			continue
		}

		decoded, err := DeserializeRouteUpdateRequest(packet)
		if err != nil {
			t.Errorf("DeserializeRouteUpdateRequest #%d error %v", i, err)
			continue
		}
		if !reflect.DeepEqual(decoded, msg) {
			t.Errorf("round trip #%d mismatch\ngot:  %swant: %s", i,
				spew.Sdump(decoded), spew.Sdump(msg))
		}
	}
}

// TestRouteUpdateEpochRange ensures the codec passes epoch indices through
// untouched, including a from index above the to index, which is a caller
// concern rather than a codec one.
func TestRouteUpdateEpochRange(t *testing.T) {
	msg := NewMsgRouteUpdateRequest(
		mustID(t, "70d1a328-a05c-bebc-32e2-3b9da0f9f119"),
		7, 9, 3, nil, nil)
	packet, err := msg.Serialize()
	if err != nil {
		t.Fatalf("Serialize error %v", err)
	}
	decoded, err := DeserializeRouteUpdateRequest(packet)
	if err != nil {
		t.Fatalf("DeserializeRouteUpdateRequest error %v", err)
	}
	if decoded.CurrentEpochIndex != 7 || decoded.FromEpochIndex != 9 ||
		decoded.ToEpochIndex != 3 {

		t.Fatalf("epoch indices mangled: %s", spew.Sdump(decoded))
	}
}

// TestRouteUpdateDestination tests the Message interface destination.
func TestRouteUpdateDestination(t *testing.T) {
	var msg Message = NewMsgRouteUpdateRequest(
		mustID(t, "00000000-0000-0000-0000-000000000000"), 0, 0, 0, nil, nil)
	if msg.Destination() != "peer.route.update" {
		t.Errorf("Destination: got %q, want %q", msg.Destination(), "peer.route.update")
	}
}

// TestRouteUpdateInvariantViolations tests the envelope-invariant checks
// against the route update destination.
func TestRouteUpdateInvariantViolations(t *testing.T) {
	serialize := func(mutate func(*envelope.Request)) []byte {
		request := &envelope.Request{
			Destination:        RouteUpdateDestination,
			ExecutionCondition: PeerProtocolCondition,
			ExpiresAt:          time.Now().Add(time.Minute),
		}
		mutate(request)
		packet, err := envelope.SerializeRequest(request)
		if err != nil {
			t.Fatalf("SerializeRequest error %v", err)
		}
		return packet
	}

	controlDestination := serialize(func(request *envelope.Request) {
		request.Destination = RouteControlDestination
	})
	_, err := DeserializeRouteUpdateRequest(controlDestination)
	if !ccperrors.IsCode(err, ccperrors.ErrProtocolMismatch) {
		t.Errorf("control destination: got %v, want ProtocolMismatch", err)
	}
	if err == nil || err.Error() != "packet is not a CCP route update request" {
		t.Errorf("wrong mismatch message: %v", err)
	}

	tamperedCondition := serialize(func(request *envelope.Request) {
		request.ExecutionCondition[0] ^= 0x80
	})
	_, err = DeserializeRouteUpdateRequest(tamperedCondition)
	if !ccperrors.IsCode(err, ccperrors.ErrAuthentication) {
		t.Errorf("tampered condition: got %v, want AuthenticationError", err)
	}

	expired := serialize(func(request *envelope.Request) {
		request.ExpiresAt = time.Now().Add(-time.Second)
	})
	_, err = DeserializeRouteUpdateRequest(expired)
	if !ccperrors.IsCode(err, ccperrors.ErrExpired) {
		t.Errorf("expired request: got %v, want Expired", err)
	}
}

// TestRouteUpdateAuthValidation ensures a route with a bad auth length
// fails serialization of the whole request with a ValidationError naming
// the offending prefix.
func TestRouteUpdateAuthValidation(t *testing.T) {
	msg := NewMsgRouteUpdateRequest(
		mustID(t, "70d1a328-a05c-bebc-32e2-3b9da0f9f119"),
		1, 1, 1,
		[]*Route{{Prefix: "g.short.auth", Auth: make([]byte, 16)}},
		nil)
	_, err := msg.Serialize()
	if !ccperrors.IsCode(err, ccperrors.ErrValidation) {
		t.Fatalf("short auth: got %v, want ValidationError", err)
	}
}

// TestRouteUpdateSerializeValidation ensures a request without a
// routing-table ID is refused on encode.
func TestRouteUpdateSerializeValidation(t *testing.T) {
	msg := &MsgRouteUpdateRequest{}
	_, err := msg.Serialize()
	if !ccperrors.IsCode(err, ccperrors.ErrValidation) {
		t.Errorf("nil routing-table ID: got %v, want ValidationError", err)
	}
}
