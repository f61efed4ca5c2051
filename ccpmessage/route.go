package ccpmessage

import (
	"io"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/serialization"
)

// RouteAuthLength is the exact byte length of a route's authentication
// tag.
const RouteAuthLength = 32

// Bit positions of the route property metadata byte, MSB first:
// [wellKnown][transitive][partial][utf8][reserved x4]. The reserved bits
// are ignored on decode and always zero on encode.
const (
	propertyFlagWellKnown  uint8 = 1 << 7
	propertyFlagTransitive uint8 = 1 << 6
	propertyFlagPartial    uint8 = 1 << 5
	propertyFlagUTF8       uint8 = 1 << 4
)

// RoutePropertyValue is the value of a route property: either opaque bytes
// or UTF-8 text. The two variants are the only implementations, so the
// utf8 discriminant on the wire can never disagree with the payload held
// in memory.
type RoutePropertyValue interface {
	isRoutePropertyValue()
}

// BytesPropertyValue is an opaque byte-string property value.
type BytesPropertyValue []byte

func (BytesPropertyValue) isRoutePropertyValue() {}

// UTF8PropertyValue is a UTF-8 text property value.
type UTF8PropertyValue string

func (UTF8PropertyValue) isRoutePropertyValue() {}

// RouteProperty is a single tagged attribute attached to a route.
//
// The flags are mutually constrained: Transitive may only be set when
// WellKnown is unset, and Partial may only be set when Transitive is set
// and WellKnown is unset. Use NewRouteProperty to get these dependencies
// checked at construction time; serialization rejects an inconsistent
// combination as well.
type RouteProperty struct {
	ID         uint16
	WellKnown  bool
	Transitive bool
	Partial    bool
	Value      RoutePropertyValue
}

// NewRouteProperty returns a new route property after validating the flag
// dependency rules. It returns a ValidationError on an inconsistent flag
// combination or a nil value.
func NewRouteProperty(id uint16, wellKnown, transitive, partial bool,
	value RoutePropertyValue) (*RouteProperty, error) {

	property := &RouteProperty{
		ID:         id,
		WellKnown:  wellKnown,
		Transitive: transitive,
		Partial:    partial,
		Value:      value,
	}
	if err := property.checkFlags(); err != nil {
		return nil, err
	}
	return property, nil
}

// IsUTF8 reports whether the property value is UTF-8 text rather than
// opaque bytes.
func (property *RouteProperty) IsUTF8() bool {
	_, ok := property.Value.(UTF8PropertyValue)
	return ok
}

func (property *RouteProperty) checkFlags() error {
	if property.Value == nil {
		return ccperrors.Errorf(ccperrors.ErrValidation,
			"route property %d has no value", property.ID)
	}
	if property.Transitive && property.WellKnown {
		return ccperrors.Errorf(ccperrors.ErrValidation,
			"route property %d is marked transitive but well-known "+
				"properties cannot be transitive", property.ID)
	}
	if property.Partial && (!property.Transitive || property.WellKnown) {
		return ccperrors.Errorf(ccperrors.ErrValidation,
			"route property %d is marked partial but only transitive "+
				"non-well-known properties can be partial", property.ID)
	}
	return nil
}

func (property *RouteProperty) valueBytes() []byte {
	switch value := property.Value.(type) {
	case BytesPropertyValue:
		return value
	case UTF8PropertyValue:
		return []byte(value)
	}
	return nil
}

func serializeRouteProperty(w io.Writer, property *RouteProperty) error {
	if err := property.checkFlags(); err != nil {
		return err
	}

	var meta uint8
	if property.WellKnown {
		meta |= propertyFlagWellKnown
	}
	if property.Transitive {
		meta |= propertyFlagTransitive
	}
	if property.Partial {
		meta |= propertyFlagPartial
	}
	if property.IsUTF8() {
		meta |= propertyFlagUTF8
	}

	err := serialization.PutUint8(w, meta)
	if err != nil {
		return err
	}
	err = serialization.PutUint16(w, property.ID)
	if err != nil {
		return err
	}
	return serialization.WriteVarBytes(w, property.valueBytes())
}

func deserializeRouteProperty(r io.Reader) (*RouteProperty, error) {
	meta, err := serialization.Uint8(r)
	if err != nil {
		return nil, err
	}
	id, err := serialization.Uint16(r)
	if err != nil {
		return nil, err
	}
	valueBytes, err := serialization.ReadVarBytes(r, "route property value")
	if err != nil {
		return nil, err
	}

	property := &RouteProperty{
		ID:         id,
		WellKnown:  meta&propertyFlagWellKnown != 0,
		Transitive: meta&propertyFlagTransitive != 0,
		Partial:    meta&propertyFlagPartial != 0,
	}
	if meta&propertyFlagUTF8 != 0 {
		property.Value = UTF8PropertyValue(valueBytes)
	} else {
		property.Value = BytesPropertyValue(valueBytes)
	}
	return property, nil
}

// Route is one advertised route: the prefix it covers, the hop path it
// propagated along, a 32-byte authentication tag, and any attached
// properties. Path and property order is propagation order and is
// preserved exactly on the wire.
type Route struct {
	Prefix     string
	Path       []string
	Auth       []byte
	Properties []*RouteProperty
}

func serializeRoute(w io.Writer, route *Route) error {
	err := serialization.WriteVarString(w, route.Prefix)
	if err != nil {
		return err
	}

	err = serialization.WriteVarUint(w, uint64(len(route.Path)))
	if err != nil {
		return err
	}
	for _, hop := range route.Path {
		err = serialization.WriteVarString(w, hop)
		if err != nil {
			return err
		}
	}

	if len(route.Auth) != RouteAuthLength {
		return ccperrors.Errorf(ccperrors.ErrValidation,
			"route for prefix %q has an auth of %d bytes, want exactly %d",
			route.Prefix, len(route.Auth), RouteAuthLength)
	}
	err = serialization.WriteBytes(w, route.Auth)
	if err != nil {
		return err
	}

	err = serialization.WriteVarUint(w, uint64(len(route.Properties)))
	if err != nil {
		return err
	}
	for _, property := range route.Properties {
		err = serializeRouteProperty(w, property)
		if err != nil {
			return err
		}
	}
	return nil
}

func deserializeRoute(r io.Reader) (*Route, error) {
	route := &Route{}

	var err error
	route.Prefix, err = serialization.ReadVarString(r, "route prefix")
	if err != nil {
		return nil, err
	}

	hopCount, err := serialization.ReadVarUint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < hopCount; i++ {
		hop, err := serialization.ReadVarString(r, "route hop")
		if err != nil {
			return nil, err
		}
		route.Path = append(route.Path, hop)
	}

	route.Auth, err = serialization.ReadBytes(r, RouteAuthLength)
	if err != nil {
		return nil, err
	}

	propertyCount, err := serialization.ReadVarUint(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < propertyCount; i++ {
		property, err := deserializeRouteProperty(r)
		if err != nil {
			return nil, err
		}
		route.Properties = append(route.Properties, property)
	}
	return route, nil
}
