// Package server implements the 9P2000 server engine: a single
// connection's request loop, its fid and tag bookkeeping, and the
// per-type dispatcher described in the protocol's server-side design.
// It is deliberately transport-agnostic (see ninep/dial for listening
// and accepting); Server.Run drives any io.ReadWriteCloser.
//
// The shape follows the teacher's styxserver.Conn/Serve: a buffered
// writer, a table of in-flight transactions keyed by tag, and context-
// free per-message dispatch. Where the teacher used a fixed-shape
// styxproto.Msg and a sync.RWMutex map of context.CancelFunc, Server
// uses the proto package's typed messages and a generic table.Table,
// and exposes flush as an explicit parked-waiter list rather than
// context cancellation, since the specification models Tflush as an
// ordering guarantee on replies rather than a cancellation signal a
// callback is obliged to observe.
package server

import (
	"bufio"
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/internal/table"
	"github.com/kestrel9p/ninep/proto"
)

// Server drives one 9P2000 session over a single connection.
type Server struct {
	rwc     io.ReadWriteCloser
	bw      *bufio.Writer
	writeMu sync.Mutex

	msize   uint32
	version string

	handler Handler
	log     *slog.Logger

	fids *table.Table[uint32, *Fid]
	reqs *table.Table[uint16, *Request]
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger sets the logger used for connection lifecycle and
// dispatch diagnostics. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMsize sets the initial, pre-negotiation msize ceiling. The
// default is ninep.DefaultMsize.
func WithMsize(n uint32) Option {
	return func(s *Server) { s.msize = n }
}

// New allocates a server for the connection rwc, matching the
// teacher's srvalloc(in_fd, out_fd): an empty fid table, an empty
// request table, and the default msize until Tversion negotiates it
// down.
func New(rwc io.ReadWriteCloser, h Handler, opts ...Option) *Server {
	s := &Server{
		rwc:     rwc,
		bw:      bufio.NewWriter(rwc),
		msize:   ninep.DefaultMsize,
		handler: h,
		log:     slog.Default(),
		fids:    table.New[uint32, *Fid](),
		reqs:    table.New[uint16, *Request](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Msize returns the currently negotiated message size.
func (s *Server) Msize() uint32 {
	return s.msize
}

// LookupFid returns the fid numbered num, if it is live.
func (s *Server) LookupFid(num uint32) (*Fid, bool) {
	return s.fids.Get(num)
}

// Run is the main loop (srvrun): it reads and dispatches requests
// until the connection is closed or a frame cannot be decoded, then
// returns. A clean EOF is reported as nil.
func (s *Server) Run() error {
	if lc, ok := s.handler.(Lifecycle); ok {
		lc.Start(s)
	}
	defer func() {
		if d, ok := s.handler.(FidDestroyer); ok {
			var live []*Fid
			s.fids.Do(func(_ uint32, f *Fid) { live = append(live, f) })
			for _, f := range live {
				s.fids.Del(f.Num)
				d.DestroyFid(f)
			}
		}
		if lc, ok := s.handler.(Lifecycle); ok {
			lc.End(s)
		}
	}()

	for {
		buf, err := proto.ReadMessage(s.rwc)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Debug("server: connection read failed", "err", err)
			return errors.Wrap(err, "server: read")
		}
		msg := proto.Decode(buf)
		if _, ok := msg.(proto.Zero); ok {
			s.log.Warn("server: malformed frame, closing connection")
			return errors.New("server: malformed frame")
		}

		tag := proto.Tag(msg)
		req := &Request{srv: s, Tag: tag, In: msg}
		if !s.reqs.Add(tag, req) {
			s.log.Warn("server: duplicate tag", "tag", tag)
			s.writeError(msg, ninep.ErrDupTag)
			continue
		}
		s.dispatch(req)
	}
}

// writeReply encodes and writes r's outcome: either r.out, or an
// Rerror built from r.errStr and r.In's type. It then releases r's
// tag from the request table.
func (s *Server) writeReply(r *Request) {
	defer s.reqs.Del(r.Tag)

	out := r.out
	if r.errStr != "" {
		out = proto.RerrorMsg{Tag: r.Tag, Ename: r.errStr}
	}
	s.write(out)
}

// writeError replies to a request that never made it into the
// request table because its tag duplicates one still in flight.
func (s *Server) writeError(in proto.Message, errStr string) {
	s.write(proto.RerrorMsg{Tag: proto.Tag(in), Ename: errStr})
}

func (s *Server) write(m proto.Message) {
	b := proto.Encode(m)
	if b == nil {
		s.log.Error("server: refusing to encode outgoing message", "type", proto.Type(m))
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.bw.Write(b); err != nil {
		s.log.Debug("server: write failed", "err", err)
		return
	}
	if err := s.bw.Flush(); err != nil {
		s.log.Debug("server: flush failed", "err", err)
	}
}
