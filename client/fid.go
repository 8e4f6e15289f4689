package client

import (
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/kestrel9p/ninep/proto"
)

// Fid is a client-held handle to a file on the attached session. It
// is not safe for concurrent use by multiple goroutines (the implicit
// offset would race); share a Client across goroutines instead, each
// walking its own Fid.
type Fid struct {
	client *Client
	num    uint32

	mu     sync.Mutex
	qid    proto.Qid
	offset uint64
	isOpen bool
	mode   uint8
}

// Num is the wire fid number; exposed for diagnostics, never needed
// to drive the client API itself.
func (f *Fid) Num() uint32 { return f.num }

// Qid returns the fid's qid as of its last walk, open, or create.
func (f *Fid) Qid() proto.Qid {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qid
}

// Walk is fswalk: it splits path on "/", skips empty and "." elements,
// and walks the result from f in chained batches of up to
// proto.MaxWalkElem names, returning a new Fid. An empty path sends a
// single zero-name Twalk and returns a fid whose qid matches f's.
func (f *Fid) Walk(path string) (*Fid, error) {
	names := splitPath(path)

	wfid := &Fid{client: f.client, num: f.client.allocFid(), qid: f.qid}
	src := f.num
	walked := 0

	if len(names) == 0 {
		reply, err := f.client.rpc(proto.TwalkMsg{Fid: src, Newfid: wfid.num})
		if err != nil {
			return nil, errors.Wrap(err, "client: walk")
		}
		rw := reply.(proto.RwalkMsg)
		if len(rw.Wqid) > 0 {
			wfid.qid = rw.Wqid[len(rw.Wqid)-1]
		}
		return wfid, nil
	}

	for walked < len(names) {
		end := walked + proto.MaxWalkElem
		if end > len(names) {
			end = len(names)
		}
		batch := names[walked:end]

		reply, err := f.client.rpc(proto.TwalkMsg{Fid: src, Newfid: wfid.num, Wname: batch})
		if err != nil {
			if walked > 0 {
				wfid.Clunk()
			}
			return nil, errors.Wrap(err, "client: walk")
		}
		rw, ok := reply.(proto.RwalkMsg)
		if !ok {
			if walked > 0 {
				wfid.Clunk()
			}
			return nil, errors.New("client: walk: unexpected reply type")
		}
		if len(rw.Wqid) < len(batch) {
			wfid.Clunk()
			return nil, errors.Errorf("client: walk: resolved %d of %d elements in %q",
				walked+len(rw.Wqid), len(names), path)
		}
		wfid.qid = rw.Wqid[len(rw.Wqid)-1]
		src = wfid.num
		walked = end
	}
	return wfid, nil
}

// splitPath breaks path on "/", dropping empty and "." components, as
// fswalk's path-splitting does.
func splitPath(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Open walks name from f and opens it: fsopen = walk then Topen.
func (f *Fid) Open(name string, mode uint8) (*Fid, error) {
	wfid, err := f.Walk(name)
	if err != nil {
		return nil, err
	}
	reply, err := f.client.rpc(proto.TopenMsg{Fid: wfid.num, Mode: mode})
	if err != nil {
		wfid.Clunk()
		return nil, errors.Wrap(err, "client: open")
	}
	ro := reply.(proto.RopenMsg)
	wfid.mu.Lock()
	wfid.qid = ro.Qid
	wfid.isOpen = true
	wfid.mode = mode
	wfid.mu.Unlock()
	return wfid, nil
}

// Create walks to name's parent directory and creates the last
// component: fscreate = walk(dir(name)) then Tcreate(base(name)).
func (f *Fid) Create(name string, mode uint8, perm uint32) (*Fid, error) {
	dir, base := splitLast(name)
	wfid, err := f.Walk(dir)
	if err != nil {
		return nil, err
	}
	reply, err := f.client.rpc(proto.TcreateMsg{Fid: wfid.num, Name: base, Perm: perm, Mode: mode})
	if err != nil {
		wfid.Clunk()
		return nil, errors.Wrap(err, "client: create")
	}
	rc := reply.(proto.RcreateMsg)
	wfid.mu.Lock()
	wfid.qid = rc.Qid
	wfid.isOpen = true
	wfid.mode = mode
	wfid.mu.Unlock()
	return wfid, nil
}

func splitLast(path string) (dir, base string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Remove walks name from f and removes it, clunking the walked fid
// regardless of whether the remove itself succeeded.
func (f *Fid) Remove(name string) error {
	wfid, err := f.Walk(name)
	if err != nil {
		return err
	}
	_, err = f.client.rpc(proto.TremoveMsg{Fid: wfid.num})
	return err
}

// Clunk releases the fid. Errors from the underlying Tclunk are
// deliberately discarded, mirroring unmount's best-effort teardown;
// use ClunkErr to observe them.
func (f *Fid) Clunk() {
	f.ClunkErr()
}

// ClunkErr is Clunk, returning the server's response.
func (f *Fid) ClunkErr() error {
	_, err := f.client.rpc(proto.TclunkMsg{Fid: f.num})
	return err
}

// Stat walks name from f, stats it, and clunks the walked fid.
func (f *Fid) Stat(name string) (proto.Dir, error) {
	wfid, err := f.Walk(name)
	if err != nil {
		return proto.Dir{}, err
	}
	defer wfid.Clunk()
	return wfid.StatSelf()
}

// StatSelf issues a Tstat on f itself, without walking.
func (f *Fid) StatSelf() (proto.Dir, error) {
	reply, err := f.client.rpc(proto.TstatMsg{Fid: f.num})
	if err != nil {
		return proto.Dir{}, errors.Wrap(err, "client: stat")
	}
	rs := reply.(proto.RstatMsg)
	d, _, err := proto.DecodeDir(rs.Stat)
	if err != nil {
		return proto.Dir{}, errors.Wrap(err, "client: stat: malformed Dir")
	}
	return d, nil
}

// Wstat walks name from f, applies dir, and clunks the walked fid.
func (f *Fid) Wstat(name string, dir proto.Dir) error {
	wfid, err := f.Walk(name)
	if err != nil {
		return err
	}
	defer wfid.Clunk()
	_, err = f.client.rpc(proto.TwstatMsg{Fid: wfid.num, Stat: proto.EncodeDir(dir)})
	return err
}
