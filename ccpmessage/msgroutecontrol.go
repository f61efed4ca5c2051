package ccpmessage

import (
	"bytes"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/routingid"
	"github.com/connectornet/ccp/util/serialization"
)

// MsgRouteControlRequest implements the Message interface and represents a
// CCP route control request. A node sends it to announce the routing-table
// lineage and epoch it last observed and to ask the peer for updates from
// that point on. The acknowledgement carries no payload.
type MsgRouteControlRequest struct {
	Speaker                 string
	LastKnownRoutingTableID *routingid.ID
	LastKnownEpoch          uint32
	Features                []string
}

// Destination returns the fixed envelope destination of route control
// requests. This is part of the Message interface implementation.
func (msg *MsgRouteControlRequest) Destination() string {
	return RouteControlDestination
}

// Serialize encodes the request payload and wraps it in a request envelope
// carrying the peer-protocol constants. This is part of the Message
// interface implementation.
func (msg *MsgRouteControlRequest) Serialize() ([]byte, error) {
	if msg.LastKnownRoutingTableID == nil {
		return nil, ccperrors.New(ccperrors.ErrValidation,
			"route control request has no last known routing-table ID")
	}

	payload := &bytes.Buffer{}
	err := serialization.WriteVarString(payload, msg.Speaker)
	if err != nil {
		return nil, err
	}
	err = msg.LastKnownRoutingTableID.Serialize(payload)
	if err != nil {
		return nil, err
	}
	err = serialization.PutUint32(payload, msg.LastKnownEpoch)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarUint(payload, uint64(len(msg.Features)))
	if err != nil {
		return nil, err
	}
	for _, feature := range msg.Features {
		err = serialization.WriteVarString(payload, feature)
		if err != nil {
			return nil, err
		}
	}

	return wrapRequest(RouteControlDestination, payload.Bytes())
}

// DeserializeRouteControlRequest unwraps a request envelope, checks the
// peer-protocol invariants against the route control destination, and
// parses the payload into a MsgRouteControlRequest.
func DeserializeRouteControlRequest(packet []byte) (*MsgRouteControlRequest, error) {
	request, err := unwrapRequest(packet, RouteControlDestination, "route control request")
	if err != nil {
		return nil, err
	}
	payload := bytes.NewReader(request.Data)

	msg := &MsgRouteControlRequest{}
	msg.Speaker, err = serialization.ReadVarString(payload, "speaker")
	if err != nil {
		return nil, err
	}
	msg.LastKnownRoutingTableID, err = routingid.Deserialize(payload)
	if err != nil {
		return nil, err
	}
	msg.LastKnownEpoch, err = serialization.Uint32(payload)
	if err != nil {
		return nil, err
	}
	featureCount, err := serialization.ReadVarUint(payload)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < featureCount; i++ {
		feature, err := serialization.ReadVarString(payload, "feature")
		if err != nil {
			return nil, err
		}
		msg.Features = append(msg.Features, feature)
	}
	return msg, nil
}

// NewMsgRouteControlRequest returns a new CCP route control request that
// conforms to the Message interface.
func NewMsgRouteControlRequest(speaker string, lastKnownRoutingTableID *routingid.ID,
	lastKnownEpoch uint32, features []string) *MsgRouteControlRequest {

	return &MsgRouteControlRequest{
		Speaker:                 speaker,
		LastKnownRoutingTableID: lastKnownRoutingTableID,
		LastKnownEpoch:          lastKnownEpoch,
		Features:                features,
	}
}
