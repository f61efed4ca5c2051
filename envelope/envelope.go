// Package envelope implements the generic conditional-transfer packet
// format that carries CCP messages between adjacent overlay nodes. The
// same envelope carries value transfers; this codec only concerns itself
// with the envelope structure, never with what rides inside it.
package envelope

import (
	"bytes"
	"io"
	"time"

	"github.com/connectornet/ccp/ccperrors"
	"github.com/connectornet/ccp/util/serialization"
)

// Envelope type bytes.
const (
	// TypeRequest marks a conditional-transfer request envelope.
	TypeRequest uint8 = 12

	// TypeResponse marks a fulfillment response envelope.
	TypeResponse uint8 = 13
)

// ConditionLength is the byte length of an execution condition and of the
// fulfillment that satisfies it.
const ConditionLength = 32

// Request is a conditional-transfer request envelope. For CCP messages the
// amount is always zero and the condition is the fixed peer-protocol
// commitment.
type Request struct {
	Amount             uint64
	Destination        string
	ExecutionCondition [ConditionLength]byte
	ExpiresAt          time.Time
	Data               []byte
}

// Response is a fulfillment response envelope.
type Response struct {
	Fulfillment [ConditionLength]byte
	Data        []byte
}

// SerializeRequest serializes a request envelope to its binary form.
func SerializeRequest(request *Request) ([]byte, error) {
	content := &bytes.Buffer{}
	err := serialization.PutUint64(content, request.Amount)
	if err != nil {
		return nil, err
	}
	err = writeTimestamp(content, request.ExpiresAt)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteBytes(content, request.ExecutionCondition[:])
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarString(content, request.Destination)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarBytes(content, request.Data)
	if err != nil {
		return nil, err
	}
	return wrap(TypeRequest, content.Bytes())
}

// DeserializeRequest parses the binary form of a request envelope.
func DeserializeRequest(packet []byte) (*Request, error) {
	content, err := unwrap(TypeRequest, packet)
	if err != nil {
		return nil, err
	}

	request := &Request{}
	request.Amount, err = serialization.Uint64(content)
	if err != nil {
		return nil, err
	}
	request.ExpiresAt, err = readTimestamp(content)
	if err != nil {
		return nil, err
	}
	condition, err := serialization.ReadBytes(content, ConditionLength)
	if err != nil {
		return nil, err
	}
	copy(request.ExecutionCondition[:], condition)
	request.Destination, err = serialization.ReadVarString(content, "destination")
	if err != nil {
		return nil, err
	}
	request.Data, err = serialization.ReadVarBytes(content, "request data")
	if err != nil {
		return nil, err
	}
	return request, nil
}

// SerializeResponse serializes a fulfillment response envelope to its
// binary form.
func SerializeResponse(response *Response) ([]byte, error) {
	content := &bytes.Buffer{}
	err := serialization.WriteBytes(content, response.Fulfillment[:])
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarBytes(content, response.Data)
	if err != nil {
		return nil, err
	}
	return wrap(TypeResponse, content.Bytes())
}

// DeserializeResponse parses the binary form of a fulfillment response
// envelope.
func DeserializeResponse(packet []byte) (*Response, error) {
	content, err := unwrap(TypeResponse, packet)
	if err != nil {
		return nil, err
	}

	response := &Response{}
	fulfillment, err := serialization.ReadBytes(content, ConditionLength)
	if err != nil {
		return nil, err
	}
	copy(response.Fulfillment[:], fulfillment)
	response.Data, err = serialization.ReadVarBytes(content, "response data")
	if err != nil {
		return nil, err
	}
	return response, nil
}

// wrap prepends the type byte and a length determinant to the content
// block.
func wrap(envelopeType uint8, content []byte) ([]byte, error) {
	packet := &bytes.Buffer{}
	err := serialization.PutUint8(packet, envelopeType)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteVarBytes(packet, content)
	if err != nil {
		return nil, err
	}
	return packet.Bytes(), nil
}

// unwrap checks the type byte and returns a reader over the
// length-delimited content block.
func unwrap(expectedType uint8, packet []byte) (io.Reader, error) {
	r := bytes.NewReader(packet)
	envelopeType, err := serialization.Uint8(r)
	if err != nil {
		return nil, err
	}
	if envelopeType != expectedType {
		return nil, ccperrors.Errorf(ccperrors.ErrFormat,
			"unexpected envelope type %d, want %d", envelopeType, expectedType)
	}
	content, err := serialization.ReadVarBytes(r, "envelope content")
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(content), nil
}
