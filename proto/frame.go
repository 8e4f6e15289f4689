package proto

import (
	"io"

	"github.com/pkg/errors"
)

// maxFrameLen caps how large a single frame's declared length may be
// before ReadMessage refuses to allocate a buffer for it. It is set
// well above any reasonable msize; a peer that lies this badly is
// worth a hard failure rather than an OOM.
const maxFrameLen = 1 << 26 // 64MiB

// ReadMessage reads one complete, length-prefixed 9P message from r:
// the 4-byte little-endian length prefix, then the rest of the frame.
// It blocks until the whole frame has arrived, retrying on short
// reads via io.ReadFull. On a clean EOF before any bytes are read it
// returns io.EOF; on a partial frame (EOF or error mid-read) or a
// frame declaring an implausible length it returns a wrapped error.
// The caller owns the returned buffer; decoded strings inside messages
// produced from it are copies, so the buffer may be reused afterward.
func ReadMessage(r io.Reader) ([]byte, error) {
	var lenbuf [4]byte
	if _, err := io.ReadFull(r, lenbuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(err, "proto: short read of length prefix")
		}
		return nil, err
	}
	size := getUint32(lenbuf[:])
	if size < 7 || size > maxFrameLen {
		return nil, errors.Errorf("proto: implausible frame length %d", size)
	}
	buf := make([]byte, size)
	copy(buf, lenbuf[:])
	if _, err := io.ReadFull(r, buf[4:]); err != nil {
		return nil, errors.Wrap(err, "proto: short read of frame body")
	}
	return buf, nil
}
