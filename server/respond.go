package server

import (
	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/proto"
)

// Fail completes req with the given error string, which becomes the
// Ename of an Rerror reply. Calling Fail (or any RespondXxx method) a
// second time on the same request is a no-op, matching the source's
// idempotent respond().
func (r *Request) Fail(errStr string) {
	r.finish(nil, errStr)
}

// RespondAuth completes a Tauth request.
func (r *Request) RespondAuth(aqid proto.Qid) {
	r.finish(proto.RauthMsg{Tag: r.Tag, Aqid: aqid}, "")
}

// RespondAttach completes a Tattach request.
func (r *Request) RespondAttach(qid proto.Qid) {
	r.finish(proto.RattachMsg{Tag: r.Tag, Qid: qid}, "")
}

// RespondWalk completes a Twalk request. wqid is the list of qids
// successfully walked so far, one per path element in order; it may
// be shorter than the number of names requested. See finishWalk for
// the partial-walk bookkeeping this triggers.
func (r *Request) RespondWalk(wqid []proto.Qid) {
	r.srv.finishWalk(r, wqid)
}

// RespondOpen completes a Topen request.
func (r *Request) RespondOpen(qid proto.Qid, iounit uint32) {
	r.withFid.setOpen(proto.AccessMode(r.openMode), qid)
	r.finish(proto.RopenMsg{Tag: r.Tag, Qid: qid, IOUnit: iounit}, "")
}

// RespondCreate completes a Tcreate request.
func (r *Request) RespondCreate(qid proto.Qid, iounit uint32) {
	r.withFid.setOpen(proto.AccessMode(r.openMode), qid)
	r.finish(proto.RcreateMsg{Tag: r.Tag, Qid: qid, IOUnit: iounit}, "")
}

// RespondRead completes a Tread request. If the fid being read is a
// directory, its implicit offset advances by len(data).
func (r *Request) RespondRead(data []byte) {
	if r.withFid != nil && r.withFid.Qid.Type.IsDir() {
		r.withFid.advance(uint64(len(data)))
	}
	r.finish(proto.RreadMsg{Tag: r.Tag, Data: data}, "")
}

// RespondWrite completes a Twrite request with the number of bytes
// actually written.
func (r *Request) RespondWrite(count uint32) {
	r.finish(proto.RwriteMsg{Tag: r.Tag, Count: count}, "")
}

// RespondStat completes a Tstat request with an encoded Dir record
// (see proto.EncodeDir).
func (r *Request) RespondStat(stat []byte) {
	r.finish(proto.RstatMsg{Tag: r.Tag, Stat: stat}, "")
}

// RespondWstat completes a Twstat request.
func (r *Request) RespondWstat() {
	r.finish(proto.RwstatMsg{Tag: r.Tag}, "")
}

// RespondRemove completes a Tremove request. The fid has already been
// released from the session's fid table regardless of outcome; this
// only determines what the peer is told.
func (r *Request) RespondRemove() {
	r.finish(proto.RremoveMsg{Tag: r.Tag}, "")
}

// finish is the idempotent completion path shared by every RespondXxx
// method and Fail. out is nil when errStr is non-empty.
func (r *Request) finish(out proto.Message, errStr string) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return
	}
	r.done = true
	r.out = out
	r.errStr = errStr
	waiters := r.waiters
	r.waiters = nil
	r.mu.Unlock()

	if errStr != "" && r.onFail != nil {
		r.onFail()
	}
	r.srv.writeReply(r)

	for _, flush := range waiters {
		flush.finish(proto.RflushMsg{Tag: flush.Tag}, "")
	}
	if d, ok := r.srv.handler.(ReqDestroyer); ok {
		d.DestroyReq(r)
	}
}

// finishWalk implements the partial-walk bookkeeping of §4.5's Twalk
// row: a short wqid list means the walk did not fully succeed, and
// any fid newly allocated for it (fid != newfid) must not survive.
func (s *Server) finishWalk(r *Request, wqid []proto.Qid) {
	names := r.walkNames
	if len(wqid) == len(names) {
		if len(wqid) == 0 {
			r.walkNewfid.Qid = r.walkFid.Qid
		} else {
			r.walkNewfid.Qid = wqid[len(wqid)-1]
		}
		r.finish(proto.RwalkMsg{Tag: r.Tag, Wqid: wqid}, "")
		return
	}
	if r.walkNewfid != r.walkFid {
		s.fids.Del(r.walkNewfid.Num)
		if d, ok := s.handler.(FidDestroyer); ok {
			d.DestroyFid(r.walkNewfid)
		}
	}
	if len(wqid) == 0 && len(names) >= 1 {
		r.finish(nil, ninep.ErrNotFound)
		return
	}
	r.finish(proto.RwalkMsg{Tag: r.Tag, Wqid: wqid}, "")
}
