package proto

import "errors"

// Errors returned by Size, DecodeDir and DecodeDirs. None of
// these are ever sent on the wire; Decode itself reports a failure as
// a zero Message (Type() == 0), per the codec's decode contract.
var (
	errShortBuffer  = errors.New("proto: buffer too short")
	errTrailingData = errors.New("proto: trailing bytes after message")
	errTooManyNames = errors.New("proto: walk carries more than MaxWalkElem names")
	errBadLength    = errors.New("proto: declared length does not match buffer")
	errUnknownType  = errors.New("proto: unknown message type")
)
