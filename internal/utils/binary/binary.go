// internal/utils/binary/binary.go
package binary

import (
	"encoding/base64"
	"encoding/binary"
)

// AppendUint64LE appends v to dst in little-endian format
func AppendUint64LE(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

// AppendUint16LE appends v to dst in little-endian format
func AppendUint16LE(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

// Uint16LE returns the 2-byte little-endian encoding of v. Used for PDA seeds.
func Uint16LE(v uint16) []byte {
	return AppendUint16LE(make([]byte, 0, 2), v)
}

// DecodeBase64 decodes standard base64 src into dst, reusing dst's capacity.
// The returned slice aliases dst when it was large enough.
func DecodeBase64(dst []byte, src string) ([]byte, error) {
	need := base64.StdEncoding.DecodedLen(len(src))
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]

	n, err := base64.StdEncoding.Decode(dst, []byte(src))
	if err != nil {
		return dst[:0], err
	}
	return dst[:n], nil
}
