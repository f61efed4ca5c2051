package ccpmessage

import (
	"bytes"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/routingid"
	"github.com/connectornet/ccp/util/serialization"
)

// MsgRouteUpdateRequest implements the Message interface and represents a
// CCP route update request. A node sends it to push the routes added and
// withdrawn over an epoch range of a routing-table lineage. The
// acknowledgement carries no payload.
//
// The codec does not require FromEpochIndex <= ToEpochIndex; the epoch
// range contract belongs to the routing layer consuming the message.
type MsgRouteUpdateRequest struct {
	RoutingTableID    *routingid.ID
	CurrentEpochIndex uint32
	FromEpochIndex    uint32
	ToEpochIndex      uint32
	NewRoutes         []*Route
	WithdrawnRoutes   []string
}

// Destination returns the fixed envelope destination of route update
// requests. This is part of the Message interface implementation.
func (msg *MsgRouteUpdateRequest) Destination() string {
	return RouteUpdateDestination
}

// Serialize encodes the request payload and wraps it in a request envelope
// carrying the peer-protocol constants. This is part of the Message
// interface implementation.
func (msg *MsgRouteUpdateRequest) Serialize() ([]byte, error) {
	if msg.RoutingTableID == nil {
		return nil, ccperrors.New(ccperrors.ErrValidation,
			"route update request has no routing-table ID")
	}

	payload := &bytes.Buffer{}
	err := msg.RoutingTableID.Serialize(payload)
	if err != nil {
		return nil, err
	}
	for _, epochIndex := range []uint32{
		msg.CurrentEpochIndex, msg.FromEpochIndex, msg.ToEpochIndex} {

		err = serialization.PutUint32(payload, epochIndex)
		if err != nil {
			return nil, err
		}
	}

	err = serialization.WriteVarUint(payload, uint64(len(msg.NewRoutes)))
	if err != nil {
		return nil, err
	}
	for _, route := range msg.NewRoutes {
		err = serializeRoute(payload, route)
		if err != nil {
			return nil, err
		}
	}

	err = serialization.WriteVarUint(payload, uint64(len(msg.WithdrawnRoutes)))
	if err != nil {
		return nil, err
	}
	for _, prefix := range msg.WithdrawnRoutes {
		err = serialization.WriteVarString(payload, prefix)
		if err != nil {
			return nil, err
		}
	}

	return wrapRequest(RouteUpdateDestination, payload.Bytes())
}

// DeserializeRouteUpdateRequest unwraps a request envelope, checks the
// peer-protocol invariants against the route update destination, and
// parses the payload into a MsgRouteUpdateRequest.
func DeserializeRouteUpdateRequest(packet []byte) (*MsgRouteUpdateRequest, error) {
	request, err := unwrapRequest(packet, RouteUpdateDestination, "route update request")
	if err != nil {
		return nil, err
	}
	payload := bytes.NewReader(request.Data)

	msg := &MsgRouteUpdateRequest{}
	msg.RoutingTableID, err = routingid.Deserialize(payload)
	if err != nil {
		return nil, err
	}
	for _, epochIndex := range []*uint32{
		&msg.CurrentEpochIndex, &msg.FromEpochIndex, &msg.ToEpochIndex} {

		*epochIndex, err = serialization.Uint32(payload)
		if err != nil {
			return nil, err
		}
	}

	routeCount, err := serialization.ReadVarUint(payload)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < routeCount; i++ {
		route, err := deserializeRoute(payload)
		if err != nil {
			return nil, err
		}
		msg.NewRoutes = append(msg.NewRoutes, route)
	}

	withdrawnCount, err := serialization.ReadVarUint(payload)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < withdrawnCount; i++ {
		prefix, err := serialization.ReadVarString(payload, "withdrawn route prefix")
		if err != nil {
			return nil, err
		}
		msg.WithdrawnRoutes = append(msg.WithdrawnRoutes, prefix)
	}
	return msg, nil
}

// NewMsgRouteUpdateRequest returns a new CCP route update request that
// conforms to the Message interface.
func NewMsgRouteUpdateRequest(routingTableID *routingid.ID,
	currentEpochIndex, fromEpochIndex, toEpochIndex uint32,
	newRoutes []*Route, withdrawnRoutes []string) *MsgRouteUpdateRequest {

	return &MsgRouteUpdateRequest{
		RoutingTableID:    routingTableID,
		CurrentEpochIndex: currentEpochIndex,
		FromEpochIndex:    fromEpochIndex,
		ToEpochIndex:      toEpochIndex,
		NewRoutes:         newRoutes,
		WithdrawnRoutes:   withdrawnRoutes,
	}
}
