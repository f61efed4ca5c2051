// Package ccpmessage implements the control-plane messages of the
// Connector-to-Connector Protocol (CCP): route control requests, route
// update requests, and their shared empty acknowledgement. Each message
// rides inside a conditional-transfer envelope addressed to a fixed
// peer-protocol destination and carrying a fixed condition commitment, so
// no real value ever moves.
//
// Every serialize/deserialize call is a single-shot, stateless transform
// between a complete record and a complete buffer. The package holds no
// cross-call state and is safe for concurrent use.
package ccpmessage

import (
	"encoding/base64"
	"time"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/envelope"
	"github.com/connectornet/ccp/util/mstime"
)

// Fixed peer-protocol destinations. An envelope addressed anywhere else is
// not a CCP message.
const (
	// RouteControlDestination is the envelope destination of route control
	// requests.
	RouteControlDestination = "peer.route.control"

	// RouteUpdateDestination is the envelope destination of route update
	// requests.
	RouteUpdateDestination = "peer.route.update"
)

// RequestExpiryDuration is how far in the future a freshly serialized
// request expires.
const RequestExpiryDuration = 60 * time.Second

// peerProtocolConditionBase64 is the fixed execution condition carried by
// every CCP request. It has no matching secret preimage in circulation;
// it only authenticates the packet as a peer-protocol message.
const peerProtocolConditionBase64 = "Zmh6rfhivXdsj8GLjp+OIAiXFIVu4jOzkCpZHQ1fKSU="

var (
	// PeerProtocolCondition is the fixed execution condition carried by
	// every CCP request envelope.
	PeerProtocolCondition [envelope.ConditionLength]byte

	// PeerProtocolFulfillment is the fixed all-zero fulfillment carried by
	// every CCP response envelope.
	PeerProtocolFulfillment [envelope.ConditionLength]byte
)

func init() {
	conditionBytes, err := base64.StdEncoding.DecodeString(peerProtocolConditionBase64)
	if err != nil || len(conditionBytes) != envelope.ConditionLength {
		panic("invalid peer-protocol condition constant")
	}
	copy(PeerProtocolCondition[:], conditionBytes)
}

// Message is the interface implemented by both CCP request messages.
type Message interface {
	// Destination returns the fixed envelope destination of the message
	// type.
	Destination() string

	// Serialize encodes the message payload and wraps it in a request
	// envelope carrying the peer-protocol constants.
	Serialize() ([]byte, error)
}

// wrapRequest wraps a serialized payload in a request envelope carrying
// the peer-protocol constants. The wall clock is read once per call to
// stamp the expiry.
func wrapRequest(destination string, payload []byte) ([]byte, error) {
	return envelope.SerializeRequest(&envelope.Request{
		Amount:             0,
		Destination:        destination,
		ExecutionCondition: PeerProtocolCondition,
		ExpiresAt:          mstime.Now().Add(RequestExpiryDuration),
		Data:               payload,
	})
}

// unwrapRequest unwraps a request envelope and checks the peer-protocol
// invariants: exact destination, exact condition commitment, and an expiry
// strictly in the future. messageName is used in the mismatch error text.
func unwrapRequest(packet []byte, destination string, messageName string) (*envelope.Request, error) {
	request, err := envelope.DeserializeRequest(packet)
	if err != nil {
		return nil, err
	}
	if request.Destination != destination {
		return nil, ccperrors.Errorf(ccperrors.ErrProtocolMismatch,
			"packet is not a CCP %s", messageName)
	}
	if request.ExecutionCondition != PeerProtocolCondition {
		return nil, ccperrors.New(ccperrors.ErrAuthentication,
			"packet does not contain the expected peer-protocol condition")
	}
	if !request.ExpiresAt.After(mstime.Now()) {
		return nil, ccperrors.Errorf(ccperrors.ErrExpired,
			"request expired at %s", request.ExpiresAt)
	}
	return request, nil
}
