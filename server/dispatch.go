package server

import (
	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/proto"
)

// dispatch implements §4.5's validating half: it enforces the
// preconditions in the row matching req.In's type, either failing req
// immediately or invoking the matching Handler method. Handler methods
// complete req themselves via a RespondXxx method or Fail.
func (s *Server) dispatch(req *Request) {
	switch m := req.In.(type) {

	case proto.TversionMsg:
		s.dispatchVersion(req, m)

	case proto.TauthMsg:
		afid := &Fid{Num: m.Afid, Uname: m.Uname}
		if !s.fids.Add(m.Afid, afid) {
			req.Fail(ninep.ErrDupFid)
			return
		}
		req.onFail = func() { s.fids.Del(m.Afid) }
		s.handler.Auth(req, afid, m.Uname, m.Aname)

	case proto.TattachMsg:
		var afid *Fid
		if m.Afid != ninep.NOFID {
			var ok bool
			afid, ok = s.fids.Get(m.Afid)
			if !ok {
				req.Fail(ninep.ErrUnknownFid)
				return
			}
		}
		fid := &Fid{Num: m.Fid, Uname: m.Uname}
		if !s.fids.Add(m.Fid, fid) {
			req.Fail(ninep.ErrDupFid)
			return
		}
		req.onFail = func() { s.fids.Del(m.Fid) }
		s.handler.Attach(req, fid, afid, m.Uname, m.Aname)

	case proto.TflushMsg:
		s.dispatchFlush(req, m)

	case proto.TwalkMsg:
		s.dispatchWalk(req, m)

	case proto.TopenMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		if fid.IsOpen() {
			req.Fail(ninep.ErrBotch)
			return
		}
		access := proto.AccessMode(m.Mode)
		if fid.Qid.Type.IsDir() && access != proto.OREAD {
			req.Fail(ninep.ErrIsDir)
			return
		}
		if fid.Qid.Type.IsDir() && m.Mode&proto.OTRUNC != 0 {
			req.Fail(ninep.ErrPermission)
			return
		}
		req.withFid = fid
		req.openMode = m.Mode
		s.handler.Open(req, fid, m.Mode)

	case proto.TcreateMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		if fid.IsOpen() {
			req.Fail(ninep.ErrBotch)
			return
		}
		if !fid.Qid.Type.IsDir() {
			req.Fail(ninep.ErrCreateNondir)
			return
		}
		req.withFid = fid
		req.openMode = m.Mode
		s.handler.Create(req, fid, m.Name, m.Perm, m.Mode)

	case proto.TreadMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		if fid.Qid.Type.IsDir() && m.Offset != 0 && m.Offset != fid.Offset() {
			req.Fail(ninep.ErrBadOffset)
			return
		}
		access := proto.AccessMode(fid.Mode())
		if !fid.IsOpen() || (access != proto.OREAD && access != proto.ORDWR && access != proto.OEXEC) {
			req.Fail(ninep.ErrBotch)
			return
		}
		count := m.Count
		if max := s.msize - proto.IOHeaderSize; count > max {
			count = max
		}
		req.withFid = fid
		s.handler.Read(req, fid, m.Offset, count)

	case proto.TwriteMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		access := proto.AccessMode(fid.Mode())
		if !fid.IsOpen() || (access != proto.OWRITE && access != proto.ORDWR) {
			req.Fail(ninep.ErrBotch)
			return
		}
		data := m.Data
		if max := int(s.msize - proto.IOHeaderSize); len(data) > max {
			data = data[:max]
		}
		s.handler.Write(req, fid, m.Offset, data)

	case proto.TclunkMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		s.fids.Del(m.Fid)
		if d, ok := s.handler.(FidDestroyer); ok {
			d.DestroyFid(fid)
		}
		req.finish(proto.RclunkMsg{Tag: req.Tag}, "")

	case proto.TremoveMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		s.fids.Del(m.Fid)
		if d, ok := s.handler.(FidDestroyer); ok {
			d.DestroyFid(fid)
		}
		s.handler.Remove(req, fid)

	case proto.TstatMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		s.handler.Stat(req, fid)

	case proto.TwstatMsg:
		fid, ok := s.fids.Get(m.Fid)
		if !ok {
			req.Fail(ninep.ErrUnknownFid)
			return
		}
		wh, ok := s.handler.(WstatHandler)
		if !ok {
			req.Fail(ninep.ErrWstatProhibited)
			return
		}
		wh.Wstat(req, fid, m.Stat)

	default:
		req.Fail("unknown message")
	}
}

func (s *Server) dispatchVersion(req *Request, m proto.TversionMsg) {
	msize := m.Msize
	if msize > s.msize {
		msize = s.msize
	}
	s.msize = msize
	s.version = proto.Version
	req.finish(proto.RversionMsg{Tag: ninep.NOTAG, Msize: msize, Version: proto.Version}, "")
}

func (s *Server) dispatchFlush(req *Request, m proto.TflushMsg) {
	if m.Oldtag == req.Tag {
		req.finish(proto.RflushMsg{Tag: req.Tag}, "")
		return
	}
	oldreq, ok := s.reqs.Get(m.Oldtag)
	if !ok {
		req.finish(proto.RflushMsg{Tag: req.Tag}, "")
		return
	}
	if n, ok := s.handler.(FlushNotifier); ok {
		n.Flush(oldreq)
	}

	oldreq.mu.Lock()
	if oldreq.done {
		oldreq.mu.Unlock()
		req.finish(proto.RflushMsg{Tag: req.Tag}, "")
		return
	}
	oldreq.waiters = append(oldreq.waiters, req)
	oldreq.mu.Unlock()
	// req is completed later, from oldreq.finish's waiter sweep.
}

func (s *Server) dispatchWalk(req *Request, m proto.TwalkMsg) {
	fid, ok := s.fids.Get(m.Fid)
	if !ok {
		req.Fail(ninep.ErrUnknownFid)
		return
	}
	if fid.IsOpen() {
		req.Fail("cannot clone open fid")
		return
	}
	if len(m.Wname) > 0 && !fid.Qid.Type.IsDir() {
		req.Fail(ninep.ErrWalkNondir)
		return
	}

	var newfid *Fid
	if m.Fid == m.Newfid {
		newfid = fid
	} else {
		newfid = &Fid{Num: m.Newfid, Uname: fid.Uname}
		if !s.fids.Add(m.Newfid, newfid) {
			req.Fail(ninep.ErrDupFid)
			return
		}
		req.onFail = func() { s.fids.Del(m.Newfid) }
	}

	req.walkFid = fid
	req.walkNewfid = newfid
	req.walkNames = m.Wname
	s.handler.Walk(req, fid, newfid, m.Wname)
}
