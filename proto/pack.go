package proto

import "encoding/binary"

// Shorthand for the little-endian integer accessors used throughout
// the codec. 9P is entirely little-endian.
var (
	getUint16 = binary.LittleEndian.Uint16
	getUint32 = binary.LittleEndian.Uint32
	getUint64 = binary.LittleEndian.Uint64
)

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v), byte(v>>8))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

// appendString appends a length-prefixed (u16 LE) string.
func appendString(buf []byte, s string) []byte {
	buf = appendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

// getString reads a length-prefixed string from the front of b,
// returning the decoded string and the remaining bytes.
func getString(b []byte) (string, []byte, error) {
	if len(b) < 2 {
		return "", b, errShortBuffer
	}
	n := int(getUint16(b))
	b = b[2:]
	if len(b) < n {
		return "", b, errShortBuffer
	}
	return string(b[:n]), b[n:], nil
}
