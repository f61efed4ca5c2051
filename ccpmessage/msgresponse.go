package ccpmessage

import (
	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/envelope"
)

// MsgCCPResponse represents the acknowledgement shared by both CCP request
// types. It carries no payload; its only semantic content is the fixed
// all-zero fulfillment on the wrapping envelope.
type MsgCCPResponse struct{}

// Serialize encodes the response as a fulfillment envelope carrying the
// fixed all-zero peer-protocol fulfillment and an empty payload.
func (msg *MsgCCPResponse) Serialize() ([]byte, error) {
	return envelope.SerializeResponse(&envelope.Response{
		Fulfillment: PeerProtocolFulfillment,
	})
}

// DeserializeCCPResponse unwraps a fulfillment envelope and verifies that
// it carries the fixed all-zero peer-protocol fulfillment. The payload is
// not interpreted.
func DeserializeCCPResponse(packet []byte) (*MsgCCPResponse, error) {
	response, err := envelope.DeserializeResponse(packet)
	if err != nil {
		return nil, err
	}
	if response.Fulfillment != PeerProtocolFulfillment {
		return nil, ccperrors.New(ccperrors.ErrAuthentication,
			"response does not contain the expected fulfillment")
	}
	return &MsgCCPResponse{}, nil
}

// NewMsgCCPResponse returns a new CCP acknowledgement.
func NewMsgCCPResponse() *MsgCCPResponse {
	return &MsgCCPResponse{}
}
