package server_test

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/memfs"
	"github.com/kestrel9p/ninep/proto"
	"github.com/kestrel9p/ninep/server"
)

// TestFlushOrdering covers testable property 6 / Scenario C: the
// server must not send Rflush for a flush targeting an in-flight
// request until that request's own reply has gone out. memfs's
// delayed-read mode (driven by golang.org/x/sync/errgroup) forces the
// Read callback off the dispatcher goroutine so the Tflush arrives
// and parks while the read is still pending.
func TestFlushOrdering(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("slow", 0644, []byte("hi"))
	fs.SetReadDelay(50 * time.Millisecond)

	client, srvConn := net.Pipe()
	defer client.Close()

	srv := server.New(srvConn, fs)
	go srv.Run()

	send := func(m proto.Message) {
		b := proto.Encode(m)
		require.NotNil(t, b)
		_, err := client.Write(b)
		require.NoError(t, err)
	}
	recv := func() proto.Message {
		b, err := proto.ReadMessage(client)
		require.NoError(t, err)
		return proto.Decode(b)
	}

	send(proto.TversionMsg{Tag: ninep.NOTAG, Msize: ninep.DefaultMsize, Version: proto.Version})
	require.IsType(t, proto.RversionMsg{}, recv())

	send(proto.TattachMsg{Tag: 1, Fid: 1, Afid: ninep.NOFID, Uname: "glenda"})
	require.IsType(t, proto.RattachMsg{}, recv())

	send(proto.TwalkMsg{Tag: 2, Fid: 1, Newfid: 2, Wname: []string{"slow"}})
	require.IsType(t, proto.RwalkMsg{}, recv())

	send(proto.TopenMsg{Tag: 3, Fid: 2, Mode: proto.OREAD})
	require.IsType(t, proto.RopenMsg{}, recv())

	send(proto.TreadMsg{Tag: 5, Fid: 2, Offset: 0, Count: 100})
	send(proto.TflushMsg{Tag: 6, Oldtag: 5})

	first := recv()
	second := recv()

	assert.Equal(t, uint16(5), proto.Tag(first), "read reply must arrive before its flush")
	assert.IsType(t, proto.RreadMsg{}, first)
	assert.Equal(t, uint16(6), proto.Tag(second))
	assert.IsType(t, proto.RflushMsg{}, second)
}

// TestDuplicateTag covers §4.4's getreq duplicate-tag handling: a
// second request using a tag still outstanding gets an immediate
// Rerror{"duplicate tag"} without disturbing the original request.
func TestDuplicateTag(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("slow", 0644, []byte("hi"))
	fs.SetReadDelay(50 * time.Millisecond)

	client, srvConn := net.Pipe()
	defer client.Close()

	srv := server.New(srvConn, fs)
	go srv.Run()

	send := func(m proto.Message) {
		b := proto.Encode(m)
		require.NotNil(t, b)
		_, err := client.Write(b)
		require.NoError(t, err)
	}
	recv := func() proto.Message {
		b, err := proto.ReadMessage(client)
		require.NoError(t, err)
		return proto.Decode(b)
	}

	send(proto.TversionMsg{Tag: ninep.NOTAG, Msize: ninep.DefaultMsize, Version: proto.Version})
	recv()
	send(proto.TattachMsg{Tag: 1, Fid: 1, Afid: ninep.NOFID, Uname: "glenda"})
	recv()
	send(proto.TwalkMsg{Tag: 2, Fid: 1, Newfid: 2, Wname: []string{"slow"}})
	recv()
	send(proto.TopenMsg{Tag: 3, Fid: 2, Mode: proto.OREAD})
	recv()

	send(proto.TreadMsg{Tag: 5, Fid: 2, Offset: 0, Count: 100})
	send(proto.TreadMsg{Tag: 5, Fid: 2, Offset: 0, Count: 100})

	reply := recv().(proto.RerrorMsg)
	assert.Equal(t, ninep.ErrDupTag, reply.Ename)

	original := recv()
	assert.IsType(t, proto.RreadMsg{}, original)
}
