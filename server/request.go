package server

import (
	"sync"

	"github.com/kestrel9p/ninep/proto"
)

// Request is the server's record of one in-flight transaction. A
// Handler method owns the request from the moment the dispatcher
// invokes it until it calls one of the RespondXxx methods or Fail;
// everything else (writing the reply to the wire, removing the tag
// from the table, releasing parked Tflush waiters) happens inside
// that call.
type Request struct {
	srv *Server
	Tag uint16
	In  proto.Message

	mu      sync.Mutex
	done    bool
	out     proto.Message
	errStr  string
	waiters []*Request // Tflush requests parked on this one

	// onFail, when set by the dispatcher before invoking a Handler
	// callback, undoes any speculative allocation (an afid, a new fid
	// from a walk) if the callback ultimately calls Fail.
	onFail func()

	// withFid is the fid a Topen/Tcreate commit applies to.
	withFid  *Fid
	openMode uint8

	// walk bookkeeping, valid only for Twalk requests.
	walkFid    *Fid
	walkNewfid *Fid
	walkNames  []string
}
