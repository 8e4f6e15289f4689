// Package memfs is a toy in-memory filesystem implementing
// server.Handler, used by the example server binary and by the
// package's own tests to exercise the dispatcher end-to-end.
//
// It owes its path-indexed design to the teacher's
// internal/filetree.Tree, adapted from an append-only rebuild-on-Put
// structure into a mutable node graph: memfs needs Tcreate/Tremove/
// Twrite to mutate the tree in place, which filetree's Put (re-walking
// and rebuilding Children slices from the index root on every call)
// does not support.
package memfs

import (
	"sort"
	"sync"
	"time"

	"github.com/kestrel9p/ninep/proto"
)

type node struct {
	mu sync.Mutex

	name   string
	qid    proto.Qid
	perm   uint32
	uid    string
	gid    string
	muid   string
	atime  time.Time
	mtime  time.Time
	data   []byte
	parent *node
	// children is nil for plain files.
	children map[string]*node
}

func (n *node) isDir() bool { return n.qid.Type.IsDir() }

func (n *node) stat() proto.Dir {
	n.mu.Lock()
	defer n.mu.Unlock()
	return proto.Dir{
		Qid:    n.qid,
		Mode:   n.perm,
		Atime:  n.atime,
		Mtime:  n.mtime,
		Length: uint64(len(n.data)),
		Name:   n.name,
		Uid:    n.uid,
		Gid:    n.gid,
		Muid:   n.muid,
	}
}

func (n *node) child(name string) (*node, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.children[name]
	return c, ok
}

func (n *node) readAt(offset uint64, count uint32) []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	if offset >= uint64(len(n.data)) {
		return nil
	}
	end := offset + uint64(count)
	if end > uint64(len(n.data)) {
		end = uint64(len(n.data))
	}
	out := make([]byte, end-offset)
	copy(out, n.data[offset:end])
	return out
}

func (n *node) writeAt(offset uint64, p []byte) uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	end := offset + uint64(len(p))
	if end > uint64(len(n.data)) {
		grown := make([]byte, end)
		copy(grown, n.data)
		n.data = grown
	}
	copy(n.data[offset:end], p)
	n.mtime = time.Now()
	return uint32(len(p))
}

// dirBytes renders a directory's children as a concatenation of Dir
// records, the form a Tread on a directory fid returns (§4.1, §4.3).
func (n *node) dirBytes() []byte {
	n.mu.Lock()
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*node, 0, len(names))
	for _, name := range names {
		children = append(children, n.children[name])
	}
	n.mu.Unlock()

	var buf []byte
	for _, c := range children {
		buf = append(buf, proto.EncodeDir(c.stat())...)
	}
	return buf
}
