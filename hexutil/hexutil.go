// Package hexutil implements the strict hex codec used for contract-call
// payloads. It accepts an optional 0x prefix and rejects everything else a
// lenient decoder would paper over: odd-length input, non-hex characters, and
// output exceeding the caller's buffer. Nothing is written on any error path.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidHex is returned for any input that is not a well-formed hex string.
var ErrInvalidHex = errors.New("invalid hex string")

const badNibble = 0xff

// TrimPrefix strips an optional 0x or 0X prefix.
func TrimPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Decode converts a hex string (optionally 0x-prefixed) into a freshly
// allocated byte slice.
func Decode(s string) ([]byte, error) {
	trimmed := TrimPrefix(s)
	out := make([]byte, len(trimmed)/2)
	n, err := DecodeInto(out, s)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// DecodeInto decodes a hex string (optionally 0x-prefixed) into dst and
// returns the number of bytes written. The input is validated in full before
// anything is written, so dst is untouched whenever an error is returned.
func DecodeInto(dst []byte, s string) (int, error) {
	s = TrimPrefix(s)
	if len(s)%2 != 0 {
		return 0, fmt.Errorf("%w: odd length %d", ErrInvalidHex, len(s))
	}
	n := len(s) / 2
	if n > len(dst) {
		return 0, fmt.Errorf("%w: decoded length %d exceeds buffer size %d", ErrInvalidHex, n, len(dst))
	}
	for i := 0; i < len(s); i++ {
		if fromHexChar(s[i]) == badNibble {
			return 0, fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidHex, s[i], i)
		}
	}
	for i := 0; i < n; i++ {
		dst[i] = fromHexChar(s[2*i])<<4 | fromHexChar(s[2*i+1])
	}
	return n, nil
}

// Encode returns the lowercase, unprefixed hex encoding of b.
func Encode(b []byte) string {
	return hex.EncodeToString(b)
}

func fromHexChar(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return badNibble
}
