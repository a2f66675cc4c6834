// Package abiutil decodes the one contract-return shape the launcher consumes:
// a single ABI-encoded dynamic string. The payload is untrusted, so the decoder
// is deliberately narrower than a general ABI decoder and rejects anything
// outside the expected layout instead of attempting a best-effort read.
package abiutil

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ruteri/mysql-ratls-launcher/hexutil"
)

// ErrMalformedPayload is returned when the payload does not match the expected
// single-dynamic-string return shape.
var ErrMalformedPayload = errors.New("malformed abi payload")

const (
	wordSize = 32

	// A well-formed single-string return carries at least an offset word, a
	// length word, and one (possibly empty, zero-padded) data word pair.
	minPayloadSize = 128
)

// DecodeDynamicString interprets a hex-encoded contract return value as a
// single ABI-encoded dynamic string and returns its byte content.
//
// The layout is: a 32-byte word holding the byte offset of the string head,
// followed at that offset by a 32-byte length word and the string bytes.
// Offset and length are read as big-endian integers from the last 4 bytes of
// their words; all bounds are checked before any read.
func DecodeDynamicString(payload string) ([]byte, error) {
	raw, err := hexutil.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(raw) < minPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, expected at least %d", ErrMalformedPayload, len(raw), minPayloadSize)
	}

	total := uint64(len(raw))
	offset := uint64(binary.BigEndian.Uint32(raw[wordSize-4 : wordSize]))
	if offset+wordSize > total {
		return nil, fmt.Errorf("%w: string offset %d out of bounds", ErrMalformedPayload, offset)
	}

	length := uint64(binary.BigEndian.Uint32(raw[offset+wordSize-4 : offset+wordSize]))
	if offset+wordSize+length > total {
		return nil, fmt.Errorf("%w: string length %d out of bounds", ErrMalformedPayload, length)
	}

	start := offset + wordSize
	out := make([]byte, length)
	copy(out, raw[start:start+length])
	return out, nil
}
