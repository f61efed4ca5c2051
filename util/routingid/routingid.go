// Package routingid implements the 16-byte routing-table identifier and
// its canonical hyphenated string form.
package routingid

import (
	"io"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/serialization"
	"github.com/google/uuid"
)

// IDLength is the byte length of a routing-table identifier.
const IDLength = 16

// stringLength is the length of the canonical hyphenated form,
// e.g. "70d1a328-a05c-bebc-32e2-3b9da0f9f119".
const stringLength = 36

// ID identifies a routing-table snapshot lineage. It is immutable once
// created.
type ID struct {
	bytes [IDLength]byte
}

// FromBytes creates an ID from the given bytes.
func FromBytes(idBytes []byte) (*ID, error) {
	if len(idBytes) != IDLength {
		return nil, ccperrors.Errorf(ccperrors.ErrFormat,
			"invalid routing-table ID length %d, want %d", len(idBytes), IDLength)
	}
	id := &ID{}
	copy(id.bytes[:], idBytes)
	return id, nil
}

// FromString parses the canonical 36-character hyphenated form into an ID.
func FromString(str string) (*ID, error) {
	if len(str) != stringLength {
		return nil, ccperrors.Errorf(ccperrors.ErrFormat,
			"invalid routing-table ID string length %d, want %d", len(str), stringLength)
	}
	if str[8] != '-' || str[13] != '-' || str[18] != '-' || str[23] != '-' {
		return nil, ccperrors.Errorf(ccperrors.ErrFormat,
			"malformed routing-table ID string %q", str)
	}
	parsed, err := uuid.Parse(str)
	if err != nil {
		return nil, ccperrors.Wrapf(ccperrors.ErrFormat, err,
			"malformed routing-table ID string %q", str)
	}
	id := &ID{}
	copy(id.bytes[:], parsed[:])
	return id, nil
}

// String returns the canonical lowercase hyphenated form of the ID.
func (id *ID) String() string {
	return uuid.UUID(id.bytes).String()
}

// Bytes returns a copy of the raw 16 bytes of the ID.
func (id *ID) Bytes() []byte {
	idBytes := make([]byte, IDLength)
	copy(idBytes, id.bytes[:])
	return idBytes
}

// Equal reports whether id and other hold the same 16 bytes.
func (id *ID) Equal(other *ID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return id.bytes == other.bytes
}

// Serialize writes the raw 16 bytes of the ID to w.
func (id *ID) Serialize(w io.Writer) error {
	return serialization.WriteBytes(w, id.bytes[:])
}

// Deserialize reads 16 raw bytes from r and returns the resulting ID.
func Deserialize(r io.Reader) (*ID, error) {
	idBytes, err := serialization.ReadBytes(r, IDLength)
	if err != nil {
		return nil, err
	}
	return FromBytes(idBytes)
}
