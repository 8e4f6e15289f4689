// Package ninep provides the shared vocabulary between a 9P2000
// client (github.com/kestrel9p/ninep/client) and server
// (github.com/kestrel9p/ninep/server): the canonical error strings a
// conforming server replies with, and a couple of type aliases onto
// the wire codec in github.com/kestrel9p/ninep/proto so that callers
// who only need to name a Qid or a sentinel value don't have to import
// the codec package directly.
package ninep

import "github.com/kestrel9p/ninep/proto"

// Qid and QidType alias the codec's definitions; see proto.Qid.
type (
	Qid     = proto.Qid
	QidType = proto.QidType
)

// Sentinel values reserved by the protocol.
const (
	NOTAG = proto.NOTAG
	NOFID = proto.NOFID
)

// DefaultMsize is the message size a fresh client proposes and the
// ceiling a fresh server negotiates down from.
const DefaultMsize = proto.DefaultMsize
