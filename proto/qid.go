package proto

import (
	"fmt"
	"io"
)

// QidSize is the encoded length of a Qid in bytes.
const QidSize = 13

// A Qid is the server's identity for a file: two files on the same
// connection are the same file if and only if their qids are equal.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

func (q Qid) String() string {
	return fmt.Sprintf("(%02x %d %x)", uint8(q.Type), q.Version, q.Path)
}

// AppendQid appends the 13-byte wire form of q to buf and returns the
// extended slice.
func AppendQid(buf []byte, q Qid) []byte {
	buf = append(buf, byte(q.Type))
	buf = appendUint32(buf, q.Version)
	buf = appendUint64(buf, q.Path)
	return buf
}

// DecodeQid reads a Qid from the front of b, returning the remaining
// bytes. It fails if b is shorter than QidSize.
func DecodeQid(b []byte) (Qid, []byte, error) {
	if len(b) < QidSize {
		return Qid{}, b, io.ErrUnexpectedEOF
	}
	q := Qid{
		Type:    QidType(b[0]),
		Version: getUint32(b[1:5]),
		Path:    getUint64(b[5:13]),
	}
	return q, b[QidSize:], nil
}
