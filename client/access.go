package client

import "github.com/kestrel9p/ninep/proto"

// Access mode bits, as used by Fid.Access. EXIST differs from the
// others in that it stats rather than opens.
const (
	AccessExist = 0
	AccessExec  = 1
	AccessWrite = 2
	AccessRead  = 4
)

// accessTable maps mode&7 to the open mode fsaccess requests when mode
// is not AccessExist, reproduced from the source's client.c
// accessTable (see SPEC_FULL.md §13): a fixed 8-entry table indexed by
// the low three bits of mode, since AccessRead|AccessWrite|AccessExec
// combinations beyond the four meaningful ones collapse onto the same
// four open modes.
var accessTable = [8]uint8{
	0:                                     proto.OREAD, // AccessExist handled separately; unused slot
	AccessExec:                            proto.OEXEC,
	AccessWrite:                           proto.OWRITE,
	AccessWrite | AccessExec:              proto.ORDWR,
	AccessRead:                            proto.OREAD,
	AccessRead | AccessExec:               proto.OEXEC,
	AccessRead | AccessWrite:              proto.ORDWR,
	AccessRead | AccessWrite | AccessExec: proto.ORDWR,
}

// Access is fsaccess: a reachability test with no permission checking
// beyond what the server itself enforces on the underlying Topen or
// Tstat. AccessExist stats name and reports whether it resolved;
// other modes open name (immediately clunking the walked fid) and
// report whether the open succeeded.
func (f *Fid) Access(name string, mode int) (bool, error) {
	if mode == AccessExist {
		_, err := f.Stat(name)
		if err != nil {
			return false, nil
		}
		return true, nil
	}
	wfid, err := f.Open(name, accessTable[mode&7])
	if err != nil {
		return false, nil
	}
	wfid.Clunk()
	return true, nil
}
