package memfs

import (
	"time"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/proto"
	"github.com/kestrel9p/ninep/server"
)

// Auth always fails: memfs has no notion of authenticated identity,
// so every Tattach is accepted unconditionally (see Attach) and no
// client ever needs an afid.
func (fs *FS) Auth(req *server.Request, afid *server.Fid, uname, aname string) {
	req.Fail("authentication not required")
}

// Attach walks aname from the root and attaches fid to it. An empty
// aname attaches the root itself.
func (fs *FS) Attach(req *server.Request, fid *server.Fid, afid *server.Fid, uname, aname string) {
	n := fs.root
	if aname != "" && aname != "/" {
		dir, base := splitPath(aname)
		for _, name := range dir {
			var ok bool
			n, ok = n.child(name)
			if !ok {
				req.Fail(ninep.ErrNotFound)
				return
			}
		}
		if base != "" {
			var ok bool
			n, ok = n.child(base)
			if !ok {
				req.Fail(ninep.ErrNotFound)
				return
			}
		}
	}
	fid.Aux = n
	fid.Qid = n.qid
	req.RespondAttach(n.qid)
}

// Walk resolves names one at a time starting from fid's node, reporting
// however far it got. The dispatcher (server.dispatchWalk /
// finishWalk) handles the partial-walk and fid-teardown bookkeeping;
// Walk only needs to report the qids it actually found.
func (fs *FS) Walk(req *server.Request, fid *server.Fid, newfid *server.Fid, names []string) {
	cur := fid.Aux.(*node)
	wqid := make([]proto.Qid, 0, len(names))
	for _, name := range names {
		next, ok := cur.child(name)
		if !ok {
			break
		}
		cur = next
		wqid = append(wqid, cur.qid)
	}
	newfid.Aux = cur
	req.RespondWalk(wqid)
}

// Open permits any access mode; there is no permission model.
func (fs *FS) Open(req *server.Request, fid *server.Fid, mode uint8) {
	n := fid.Aux.(*node)
	req.RespondOpen(n.qid, 0)
}

// Create makes a new child of fid (which must be a directory — the
// dispatcher already checked this) and opens it.
func (fs *FS) Create(req *server.Request, fid *server.Fid, name string, perm uint32, mode uint8) {
	dir := fid.Aux.(*node)
	if _, exists := dir.child(name); exists {
		req.Fail("file already exists")
		return
	}
	n := fs.newNode(name, perm, nil)
	n.parent = dir
	dir.mu.Lock()
	dir.children[name] = n
	dir.mu.Unlock()
	fid.Aux = n
	req.RespondCreate(n.qid, 0)
}

// Read serves both file and directory reads. When a read delay has
// been configured (SetReadDelay), file reads respond from a tracked
// goroutine instead of inline, to exercise the server's flush-parking
// path in tests.
func (fs *FS) Read(req *server.Request, fid *server.Fid, offset uint64, count uint32) {
	n := fid.Aux.(*node)
	if n.isDir() {
		buf := n.dirBytes()
		req.RespondRead(sliceAt(buf, offset, count))
		return
	}
	if fs.delay > 0 {
		fs.group.Go(func() error {
			time.Sleep(fs.delay)
			req.RespondRead(n.readAt(offset, count))
			return nil
		})
		return
	}
	req.RespondRead(n.readAt(offset, count))
}

func sliceAt(buf []byte, offset uint64, count uint32) []byte {
	if offset >= uint64(len(buf)) {
		return nil
	}
	end := offset + uint64(count)
	if end > uint64(len(buf)) {
		end = uint64(len(buf))
	}
	return buf[offset:end]
}

// Write appends/overwrites a regular file's contents.
func (fs *FS) Write(req *server.Request, fid *server.Fid, offset uint64, data []byte) {
	n := fid.Aux.(*node)
	req.RespondWrite(n.writeAt(offset, data))
}

// Stat reports fid's current metadata.
func (fs *FS) Stat(req *server.Request, fid *server.Fid) {
	n := fid.Aux.(*node)
	req.RespondStat(proto.EncodeDir(n.stat()))
}

// Wstat applies the subset of a Dir record memfs supports changing:
// Name (rename in place) and Length (truncate). Fields set to their
// "don't touch" sentinel — an empty string, or ^uint64(0) for Length —
// are left alone, the convention documented in the source's wstat.go.
func (fs *FS) Wstat(req *server.Request, fid *server.Fid, stat []byte) {
	d, _, err := proto.DecodeDir(stat)
	if err != nil {
		req.Fail(ninep.ErrBotch)
		return
	}
	n := fid.Aux.(*node)
	if d.Name != "" && d.Name != n.name {
		if n.parent != nil {
			n.parent.mu.Lock()
			delete(n.parent.children, n.name)
			n.parent.children[d.Name] = n
			n.parent.mu.Unlock()
		}
		n.mu.Lock()
		n.name = d.Name
		n.mu.Unlock()
	}
	if d.Length != ^uint64(0) {
		n.mu.Lock()
		if int(d.Length) <= len(n.data) {
			n.data = n.data[:d.Length]
		} else {
			grown := make([]byte, d.Length)
			copy(grown, n.data)
			n.data = grown
		}
		n.mu.Unlock()
	}
	req.RespondWstat()
}

// Remove deletes fid from its parent directory. The fid itself has
// already been released from the session's table by the dispatcher
// regardless of what Remove does here (§7).
func (fs *FS) Remove(req *server.Request, fid *server.Fid) {
	n := fid.Aux.(*node)
	if n.parent != nil {
		n.parent.mu.Lock()
		delete(n.parent.children, n.name)
		n.parent.mu.Unlock()
	}
	req.RespondRemove()
}

// DestroyFid releases no resources: node data lives for as long as
// the FS does, independent of any fid that referenced it.
func (fs *FS) DestroyFid(fid *server.Fid) {}
