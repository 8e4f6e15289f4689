package server

import (
	"sync"

	"github.com/kestrel9p/ninep/proto"
)

// Fid is the server-side record of one client-chosen fid: the qid it
// currently names, whether and how it has been opened, and the uid
// that attached or walked it into existence. Handlers store whatever
// backend-specific state they need in Aux.
type Fid struct {
	Num   uint32
	Qid   proto.Qid
	Uname string

	mu     sync.Mutex
	isOpen bool
	omode  uint8
	offset uint64

	// Aux is for the Handler's own use: a file handle, inode pointer,
	// or anything else it needs to associate with this fid. The
	// dispatcher never reads or writes it.
	Aux any
}

// IsOpen reports whether Topen or Tcreate has succeeded on this fid
// and it has not since been clunked.
func (f *Fid) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isOpen
}

// Mode returns the open mode recorded by a prior Topen/Tcreate. Only
// meaningful when IsOpen is true.
func (f *Fid) Mode() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.omode
}

// Offset returns the fid's implicit read/write cursor, used by
// directory reads to enforce sequential-only access (§4.5 Tread row).
func (f *Fid) Offset() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset
}

func (f *Fid) setOpen(mode uint8, qid proto.Qid) {
	f.mu.Lock()
	f.isOpen = true
	f.omode = mode
	f.Qid = qid
	if qid.Type.IsDir() {
		f.offset = 0
	}
	f.mu.Unlock()
}

func (f *Fid) advance(n uint64) {
	f.mu.Lock()
	f.offset += n
	f.mu.Unlock()
}
