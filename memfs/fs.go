package memfs

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kestrel9p/ninep/proto"
)

// FS is an in-memory 9P filesystem. The zero value is not usable; use
// NewFS.
type FS struct {
	mu       sync.Mutex
	root     *node
	nextPath uint64

	// delay, when non-zero, makes Read hand the reply off to a
	// goroutine tracked by group instead of responding inline. It
	// exists to drive the dispatcher down the park-on-flush code path
	// in tests (§8 property 6) without a real slow disk or network.
	delay time.Duration
	group errgroup.Group
}

// NewFS returns an FS containing only the root directory.
func NewFS() *FS {
	fs := &FS{}
	fs.root = &node{
		name:     "/",
		qid:      proto.Qid{Type: proto.QTDIR, Path: fs.allocPath()},
		perm:     proto.DMDIR | 0755,
		uid:      "glenda",
		gid:      "glenda",
		muid:     "glenda",
		mtime:    time.Now(),
		atime:    time.Now(),
		children: make(map[string]*node),
	}
	return fs
}

func (fs *FS) allocPath() uint64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.nextPath++
	return fs.nextPath
}

// SetReadDelay configures the simulated slow-backend mode used by
// flush-ordering tests: every Read on a regular file sleeps d before
// responding, on a goroutine tracked by FS.Wait.
func (fs *FS) SetReadDelay(d time.Duration) {
	fs.delay = d
}

// Wait blocks until every deferred read spawned by the delayed-read
// mode has responded. Tests call this after driving the flush
// scenario to avoid racing the assertions against the response.
func (fs *FS) Wait() error {
	return fs.group.Wait()
}

// Mkdir creates an empty directory at the given slash-separated path,
// creating intermediate directories as needed. It is meant for
// pre-seeding a tree before serving it, not for concurrent use
// alongside a running server.
func (fs *FS) Mkdir(path string, perm uint32) *node {
	return fs.put(path, perm|proto.DMDIR, nil)
}

// WriteFile creates a regular file at path with the given contents,
// creating intermediate directories as needed.
func (fs *FS) WriteFile(path string, perm uint32, data []byte) *node {
	return fs.put(path, perm, data)
}

func (fs *FS) put(path string, perm uint32, data []byte) *node {
	dir, base := splitPath(path)
	cur := fs.root
	for _, name := range dir {
		next, ok := cur.child(name)
		if !ok {
			next = fs.newNode(name, proto.DMDIR|0755, nil)
			cur.mu.Lock()
			cur.children[name] = next
			cur.mu.Unlock()
			next.parent = cur
		}
		cur = next
	}
	n := fs.newNode(base, perm, data)
	n.parent = cur
	cur.mu.Lock()
	cur.children[base] = n
	cur.mu.Unlock()
	return n
}

func (fs *FS) newNode(name string, perm uint32, data []byte) *node {
	qtype := proto.QTFILE
	if perm&proto.DMDIR != 0 {
		qtype = proto.QTDIR
	}
	now := time.Now()
	n := &node{
		name:  name,
		qid:   proto.Qid{Type: qtype, Path: fs.allocPath()},
		perm:  perm,
		uid:   "glenda",
		gid:   "glenda",
		muid:  "glenda",
		atime: now,
		mtime: now,
		data:  data,
	}
	if qtype.IsDir() {
		n.children = make(map[string]*node)
	}
	return n
}
