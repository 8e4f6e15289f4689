package proto

// Message is implemented by every decoded 9P2000 message. Unlike the
// teacher's byte-slice views (aqwari.net/net/styx/styxproto), each
// variant here is a plain Go struct holding decoded values: simpler to
// construct in tests and to reason about once the underlying wire
// buffer has gone out of scope. Encode, Decode, and Size switch
// exhaustively over the set below; adding a message type means adding
// a branch to each of the three.
type Message interface {
	message()
}

// Zero is the sentinel returned by Decode when a buffer cannot be
// parsed as a well-formed message: truncated, declares an impossible
// length, carries too many walk names, or uses an unknown type code.
// Per the codec's decode contract, Type()==0 is never a valid message
// read off the wire.
type Zero struct{}

func (Zero) message() {}

type TversionMsg struct {
	Tag     uint16
	Msize   uint32
	Version string
}

type RversionMsg struct {
	Tag     uint16
	Msize   uint32
	Version string
}

type TauthMsg struct {
	Tag   uint16
	Afid  uint32
	Uname string
	Aname string
}

type RauthMsg struct {
	Tag  uint16
	Aqid Qid
}

// RerrorMsg carries a short, UTF-8 explanation of why a request
// failed. It implements error so it can be returned directly from
// client RPC helpers.
type RerrorMsg struct {
	Tag   uint16
	Ename string
}

func (m RerrorMsg) Error() string { return m.Ename }

type TflushMsg struct {
	Tag    uint16
	Oldtag uint16
}

type RflushMsg struct {
	Tag uint16
}

type TattachMsg struct {
	Tag   uint16
	Fid   uint32
	Afid  uint32
	Uname string
	Aname string
}

type RattachMsg struct {
	Tag uint16
	Qid Qid
}

type TwalkMsg struct {
	Tag    uint16
	Fid    uint32
	Newfid uint32
	Wname  []string
}

type RwalkMsg struct {
	Tag  uint16
	Wqid []Qid
}

type TopenMsg struct {
	Tag  uint16
	Fid  uint32
	Mode uint8
}

type RopenMsg struct {
	Tag    uint16
	Qid    Qid
	IOUnit uint32
}

type TcreateMsg struct {
	Tag  uint16
	Fid  uint32
	Name string
	Perm uint32
	Mode uint8
}

type RcreateMsg struct {
	Tag    uint16
	Qid    Qid
	IOUnit uint32
}

type TreadMsg struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Count  uint32
}

type RreadMsg struct {
	Tag  uint16
	Data []byte
}

type TwriteMsg struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Data   []byte
}

type RwriteMsg struct {
	Tag   uint16
	Count uint32
}

type TclunkMsg struct {
	Tag uint16
	Fid uint32
}

type RclunkMsg struct {
	Tag uint16
}

type TremoveMsg struct {
	Tag uint16
	Fid uint32
}

type RremoveMsg struct {
	Tag uint16
}

type TstatMsg struct {
	Tag uint16
	Fid uint32
}

// RstatMsg.Stat is the encoded form of a Dir record (see dir.go), kept
// opaque here exactly as the wire format does: "stat (opaque byte
// string, itself a directory entry record)".
type RstatMsg struct {
	Tag  uint16
	Stat []byte
}

type TwstatMsg struct {
	Tag  uint16
	Fid  uint32
	Stat []byte
}

type RwstatMsg struct {
	Tag uint16
}

func (TversionMsg) message() {}
func (RversionMsg) message() {}
func (TauthMsg) message()    {}
func (RauthMsg) message()    {}
func (RerrorMsg) message()   {}
func (TflushMsg) message()   {}
func (RflushMsg) message()   {}
func (TattachMsg) message()  {}
func (RattachMsg) message()  {}
func (TwalkMsg) message()    {}
func (RwalkMsg) message()    {}
func (TopenMsg) message()    {}
func (RopenMsg) message()    {}
func (TcreateMsg) message()  {}
func (RcreateMsg) message()  {}
func (TreadMsg) message()    {}
func (RreadMsg) message()    {}
func (TwriteMsg) message()   {}
func (RwriteMsg) message()   {}
func (TclunkMsg) message()   {}
func (RclunkMsg) message()   {}
func (TremoveMsg) message()  {}
func (RremoveMsg) message()  {}
func (TstatMsg) message()    {}
func (RstatMsg) message()    {}
func (TwstatMsg) message()   {}
func (RwstatMsg) message()   {}

// Tag returns the transaction tag of m. Every message carries one,
// including Zero (which reports NOTAG).
func Tag(m Message) uint16 {
	switch m := m.(type) {
	case Zero:
		return NOTAG
	case TversionMsg:
		return m.Tag
	case RversionMsg:
		return m.Tag
	case TauthMsg:
		return m.Tag
	case RauthMsg:
		return m.Tag
	case RerrorMsg:
		return m.Tag
	case TflushMsg:
		return m.Tag
	case RflushMsg:
		return m.Tag
	case TattachMsg:
		return m.Tag
	case RattachMsg:
		return m.Tag
	case TwalkMsg:
		return m.Tag
	case RwalkMsg:
		return m.Tag
	case TopenMsg:
		return m.Tag
	case RopenMsg:
		return m.Tag
	case TcreateMsg:
		return m.Tag
	case RcreateMsg:
		return m.Tag
	case TreadMsg:
		return m.Tag
	case RreadMsg:
		return m.Tag
	case TwriteMsg:
		return m.Tag
	case RwriteMsg:
		return m.Tag
	case TclunkMsg:
		return m.Tag
	case RclunkMsg:
		return m.Tag
	case TremoveMsg:
		return m.Tag
	case RremoveMsg:
		return m.Tag
	case TstatMsg:
		return m.Tag
	case RstatMsg:
		return m.Tag
	case TwstatMsg:
		return m.Tag
	case RwstatMsg:
		return m.Tag
	default:
		return NOTAG
	}
}

// Type returns the wire type code of m, or 0 for Zero.
func Type(m Message) uint8 {
	switch m.(type) {
	case Zero:
		return 0
	case TversionMsg:
		return Tversion
	case RversionMsg:
		return Rversion
	case TauthMsg:
		return Tauth
	case RauthMsg:
		return Rauth
	case RerrorMsg:
		return Rerror
	case TflushMsg:
		return Tflush
	case RflushMsg:
		return Rflush
	case TattachMsg:
		return Tattach
	case RattachMsg:
		return Rattach
	case TwalkMsg:
		return Twalk
	case RwalkMsg:
		return Rwalk
	case TopenMsg:
		return Topen
	case RopenMsg:
		return Ropen
	case TcreateMsg:
		return Tcreate
	case RcreateMsg:
		return Rcreate
	case TreadMsg:
		return Tread
	case RreadMsg:
		return Rread
	case TwriteMsg:
		return Twrite
	case RwriteMsg:
		return Rwrite
	case TclunkMsg:
		return Tclunk
	case RclunkMsg:
		return Rclunk
	case TremoveMsg:
		return Tremove
	case RremoveMsg:
		return Rremove
	case TstatMsg:
		return Tstat
	case RstatMsg:
		return Rstat
	case TwstatMsg:
		return Twstat
	case RwstatMsg:
		return Rwstat
	default:
		return 0
	}
}
