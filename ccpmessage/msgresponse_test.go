package ccpmessage

import (
	"testing"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/envelope"
)

// TestResponseRoundTrip tests acknowledgement encode and decode.
func TestResponseRoundTrip(t *testing.T) {
	packet, err := NewMsgCCPResponse().Serialize()
	if err != nil {
		t.Fatalf("Serialize error %v", err)
	}

	_, err = DeserializeCCPResponse(packet)
	if err != nil {
		t.Fatalf("DeserializeCCPResponse error %v", err)
	}
}

// TestResponseFulfillment ensures encode always produces the fixed
// all-zero fulfillment and an empty payload.
func TestResponseFulfillment(t *testing.T) {
	packet, err := NewMsgCCPResponse().Serialize()
	if err != nil {
		t.Fatalf("Serialize error %v", err)
	}

	response, err := envelope.DeserializeResponse(packet)
	if err != nil {
		t.Fatalf("DeserializeResponse error %v", err)
	}
	if response.Fulfillment != [envelope.ConditionLength]byte{} {
		t.Errorf("Fulfillment: got %x, want 32 zero bytes", response.Fulfillment)
	}
	if len(response.Data) != 0 {
		t.Errorf("Data: got %x, want empty", response.Data)
	}
}

// TestResponseWrongFulfillment ensures any fulfillment other than 32 zero
// bytes raises an AuthenticationError.
func TestResponseWrongFulfillment(t *testing.T) {
	fulfillments := [][envelope.ConditionLength]byte{
		{0x01},
		{31: 0x01},
		PeerProtocolCondition,
	}
	for i, fulfillment := range fulfillments {
		packet, err := envelope.SerializeResponse(&envelope.Response{
			Fulfillment: fulfillment,
		})
		if err != nil {
			t.Fatalf("SerializeResponse #%d error %v", i, err)
		}

		decoded, err := DeserializeCCPResponse(packet)
		if !ccperrors.IsCode(err, ccperrors.ErrAuthentication) {
			t.Errorf("#%d: got %v, want AuthenticationError", i, err)
		}
		if err != nil && err.Error() != "response does not contain the expected fulfillment" {
			t.Errorf("#%d: wrong error message %q", i, err.Error())
		}
		if decoded != nil {
			t.Errorf("#%d: got a response despite the error", i)
		}
	}
}

// TestResponsePayloadIgnored ensures a nonempty response payload does not
// affect validation.
func TestResponsePayloadIgnored(t *testing.T) {
	packet, err := envelope.SerializeResponse(&envelope.Response{
		Fulfillment: [envelope.ConditionLength]byte{},
		Data:        []byte{0xde, 0xad},
	})
	if err != nil {
		t.Fatalf("SerializeResponse error %v", err)
	}
	_, err = DeserializeCCPResponse(packet)
	if err != nil {
		t.Fatalf("DeserializeCCPResponse error %v", err)
	}
}
