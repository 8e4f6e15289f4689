package client

import (
	"io"

	"github.com/pkg/errors"

	"github.com/kestrel9p/ninep/proto"
)

// ReadAt is fspread: it clamps len(p) to msize-24, issues one Tread at
// offset, and copies the returned bytes into p. A short read is
// normal, not an error; io.ReaderAt's contract instead requires
// ReadAt to keep reading until p is full or an error (including EOF)
// occurs, which ReadFull does on top of Read (the implicit-offset
// form). ReadAt itself only ever issues the single underlying Tread
// the source's fspread does.
func (f *Fid) ReadAt(p []byte, offset int64) (int, error) {
	count := uint32(len(p))
	if max := f.client.msize - proto.IOHeaderSize; count > max {
		count = max
	}
	reply, err := f.client.rpc(proto.TreadMsg{Fid: f.num, Offset: uint64(offset), Count: count})
	if err != nil {
		return 0, errors.Wrap(err, "client: read")
	}
	rr := reply.(proto.RreadMsg)
	n := copy(p, rr.Data)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Read is the implicit-offset form (fsread): it calls ReadAt at the
// fid's current offset and advances it by the bytes actually read.
func (f *Fid) Read(p []byte) (int, error) {
	f.mu.Lock()
	off := f.offset
	f.mu.Unlock()

	n, err := f.ReadAt(p, int64(off))
	if n > 0 {
		f.mu.Lock()
		f.offset += uint64(n)
		f.mu.Unlock()
	}
	return n, err
}

// ReadFull is fsreadn: it loops Read until p is full or the server
// signals end-of-file with a zero-byte reply.
func (f *Fid) ReadFull(p []byte) (int, error) {
	return io.ReadFull(f, p)
}

// WriteAt is the pwrite half of fspwrite: it chunks data into pieces
// of at most msize-24 bytes, issuing one Twrite per chunk, and stops
// as soon as the server reports a short write.
func (f *Fid) WriteAt(data []byte, offset int64) (int, error) {
	max := int(f.client.msize - proto.IOHeaderSize)
	written := 0
	for written < len(data) {
		end := written + max
		if end > len(data) {
			end = len(data)
		}
		chunk := data[written:end]
		reply, err := f.client.rpc(proto.TwriteMsg{Fid: f.num, Offset: uint64(offset) + uint64(written), Data: chunk})
		if err != nil {
			return written, errors.Wrap(err, "client: write")
		}
		rw := reply.(proto.RwriteMsg)
		written += int(rw.Count)
		if int(rw.Count) < len(chunk) {
			break
		}
	}
	return written, nil
}

// Write is the implicit-offset form of WriteAt, advancing the fid's
// offset by the bytes actually written.
func (f *Fid) Write(data []byte) (int, error) {
	f.mu.Lock()
	off := f.offset
	f.mu.Unlock()

	n, err := f.WriteAt(data, int64(off))
	if n > 0 {
		f.mu.Lock()
		f.offset += uint64(n)
		f.mu.Unlock()
	}
	return n, err
}

// Whence values for Seek, mirroring io.Seeker (io.SeekStart etc. are
// identical numerically; these exist so client code reads as 9P
// terminology, matching fsseek's SET/CUR/END).
const (
	SeekSet = io.SeekStart
	SeekCur = io.SeekCurrent
	SeekEnd = io.SeekEnd
)

// Seek is fsseek, corrected per §9's open question: SEEK_SET does not
// fall through to SEEK_CUR behavior. SEEK_END issues a Tstat and seeks
// relative to the reported length.
func (f *Fid) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var base int64
	switch whence {
	case SeekSet:
		base = 0
	case SeekCur:
		base = int64(f.offset)
	case SeekEnd:
		d, err := f.statSelfLocked()
		if err != nil {
			return 0, errors.Wrap(err, "client: seek")
		}
		base = int64(d.Length)
	default:
		return 0, errors.Errorf("client: seek: invalid whence %d", whence)
	}

	pos := base + offset
	if pos < 0 {
		return 0, errors.New("client: seek: negative position")
	}
	f.offset = uint64(pos)
	return pos, nil
}

func (f *Fid) statSelfLocked() (proto.Dir, error) {
	reply, err := f.client.rpc(proto.TstatMsg{Fid: f.num})
	if err != nil {
		return proto.Dir{}, err
	}
	rs := reply.(proto.RstatMsg)
	d, _, err := proto.DecodeDir(rs.Stat)
	return d, err
}

// DirMax is the buffer size fsdirread requests in a single Tread.
const DirMax = 8192

// DirBufMax is the cumulative buffer size fsdirreadall is willing to
// accumulate before giving up, set to 16 directory-read chunks.
const DirBufMax = DirMax * 16

// DirRead is fsdirread: a single Tread of up to DirMax bytes, parsed
// as a concatenation of Dir records.
func (f *Fid) DirRead() ([]proto.Dir, error) {
	buf := make([]byte, DirMax)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return proto.DecodeDirs(buf[:n])
}

// DirReadAll is fsdirreadall: it repeats DirRead until end-of-
// directory or DirBufMax total bytes have been read.
func (f *Fid) DirReadAll() ([]proto.Dir, error) {
	var all []proto.Dir
	total := 0
	for total < DirBufMax {
		ds, err := f.DirRead()
		if err != nil {
			return all, err
		}
		if len(ds) == 0 {
			break
		}
		all = append(all, ds...)
		for _, d := range ds {
			total += len(proto.EncodeDir(d))
		}
	}
	return all, nil
}
