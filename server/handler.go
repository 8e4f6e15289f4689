package server

// Handler implements the filesystem-specific half of a 9P session: the
// validating half of the dispatcher (see dispatch.go) calls into it
// once a request has passed the protocol-level checks in §4.5, and the
// callback commits its result by calling one of Request's RespondXxx
// methods (or Fail) exactly once.
//
// A callback may call Respond/Fail inline, from the same goroutine the
// dispatcher invoked it on (synchronous backend), or hand req off to
// another goroutine and return immediately (asynchronous backend); the
// dispatcher makes no assumption either way. See the teacher's
// Interface in styxserver/server.go, whose single-goroutine "callback
// completes or parks" contract this generalizes to a capability
// interface with one method per message type rather than a single
// dispatch method per request kind.
type Handler interface {
	Auth(req *Request, afid *Fid, uname, aname string)
	Attach(req *Request, fid *Fid, afid *Fid, uname, aname string)
	Walk(req *Request, fid *Fid, newfid *Fid, names []string)
	Open(req *Request, fid *Fid, mode uint8)
	Create(req *Request, fid *Fid, name string, perm uint32, mode uint8)
	Read(req *Request, fid *Fid, offset uint64, count uint32)
	Write(req *Request, fid *Fid, offset uint64, data []byte)
	Stat(req *Request, fid *Fid)
	Remove(req *Request, fid *Fid)
}

// WstatHandler is implemented by backends that allow modifying
// metadata. Per §4.5, a Handler that does not implement WstatHandler
// causes every Twstat to fail with ninep.ErrWstatProhibited.
type WstatHandler interface {
	Wstat(req *Request, fid *Fid, stat []byte)
}

// FlushNotifier is notified when a Tflush names oldreq as its target,
// before the dispatcher either parks the flush on oldreq or, if oldreq
// has already completed, replies to it, so a backend with real
// cancellation support (a context, a goroutine to interrupt) can act
// on it. The dispatcher performs the parking and
// eventual Rflush delivery itself; this is a notification only, not
// something the backend must respond to.
type FlushNotifier interface {
	Flush(oldreq *Request)
}

// FidDestroyer is notified when a fid has been permanently removed
// from the session, whether by Tclunk, Tremove, or connection
// teardown, so the backend can release any resources held in Fid.Aux.
type FidDestroyer interface {
	DestroyFid(fid *Fid)
}

// ReqDestroyer is notified when a request's bookkeeping has been
// fully released (its reply written and any parked Rflush replies
// sent), mirroring the source's destroyreq callback. Requests still in
// flight when the session ends are not reported.
type ReqDestroyer interface {
	DestroyReq(req *Request)
}

// Lifecycle is notified when a session's main loop starts and ends.
type Lifecycle interface {
	Start(*Server)
	End(*Server)
}
