package client_test

import (
	"fmt"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/client"
	"github.com/kestrel9p/ninep/proto"
)

// fakeServer answers exactly the messages a test expects, recording
// every Twalk it sees so the test can assert on batching without a
// real filesystem behind it.
type fakeServer struct {
	conn    net.Conn
	walks   []proto.TwalkMsg
	tagsSeen []uint16
}

func newFakeServer(t *testing.T) (*fakeServer, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	return &fakeServer{conn: server}, client
}

func (f *fakeServer) recv(t *testing.T) proto.Message {
	t.Helper()
	b, err := proto.ReadMessage(f.conn)
	require.NoError(t, err)
	m := proto.Decode(b)
	f.tagsSeen = append(f.tagsSeen, proto.Tag(m))
	return m
}

func (f *fakeServer) send(t *testing.T, m proto.Message) {
	t.Helper()
	b := proto.Encode(m)
	require.NotNil(t, b)
	_, err := f.conn.Write(b)
	require.NoError(t, err)
}

// serveMountAndWalk drives the fixed handshake (Tversion, Tattach)
// every test needs, then hands control to handleWalks for the
// message(s) under test.
func serveMountAndWalk(t *testing.T, f *fakeServer, handleWalks func()) {
	t.Helper()
	v := f.recv(t).(proto.TversionMsg)
	f.send(t, proto.RversionMsg{Tag: ninep.NOTAG, Msize: v.Msize, Version: proto.Version})

	a := f.recv(t).(proto.TattachMsg)
	f.send(t, proto.RattachMsg{Tag: a.Tag, Qid: proto.Qid{Type: proto.QTDIR, Path: 1}})

	handleWalks()
}

func TestWalkBatching(t *testing.T) {
	f, conn := newFakeServer(t)
	done := make(chan struct{})

	go func() {
		defer close(done)
		serveMountAndWalk(t, f, func() {
			for i := 0; i < 3; i++ {
				w := f.recv(t).(proto.TwalkMsg)
				f.walks = append(f.walks, w)
				wqid := make([]proto.Qid, len(w.Wname))
				for j := range wqid {
					wqid[j] = proto.Qid{Path: uint64(i*16 + j + 1)}
				}
				f.send(t, proto.RwalkMsg{Tag: w.Tag, Wqid: wqid})
			}
		})
	}()

	c, err := client.Mount(conn, "", 0)
	require.NoError(t, err)

	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("n%02d", i)
	}
	_, err = c.Root().Walk(strings.Join(names, "/"))
	require.NoError(t, err)
	<-done

	require.Len(t, f.walks, 3)
	assert.Len(t, f.walks[0].Wname, 16)
	assert.Len(t, f.walks[1].Wname, 16)
	assert.Len(t, f.walks[2].Wname, 8)
	// chained: second and third batches walk from the fid the first
	// batch established, not from the root fid.
	assert.Equal(t, f.walks[0].Newfid, f.walks[1].Fid)
	assert.Equal(t, f.walks[1].Newfid, f.walks[2].Fid)
}

func TestTagUniqueness(t *testing.T) {
	f, conn := newFakeServer(t)
	done := make(chan struct{})

	go func() {
		defer close(done)
		serveMountAndWalk(t, f, func() {
			for i := 0; i < 5; i++ {
				w := f.recv(t).(proto.TwalkMsg)
				f.send(t, proto.RwalkMsg{Tag: w.Tag, Wqid: []proto.Qid{{Path: uint64(i + 1)}}})
			}
		})
	}()

	c, err := client.Mount(conn, "", 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := c.Root().Walk(fmt.Sprintf("f%d", i))
		require.NoError(t, err)
	}
	<-done

	seen := make(map[uint16]bool)
	for _, tag := range f.tagsSeen {
		if tag == ninep.NOTAG {
			continue
		}
		assert.False(t, seen[tag], "tag %d reused", tag)
		seen[tag] = true
	}
}

func TestRerrorSurfacedDistinctly(t *testing.T) {
	f, conn := newFakeServer(t)
	done := make(chan struct{})

	go func() {
		defer close(done)
		serveMountAndWalk(t, f, func() {
			w := f.recv(t).(proto.TwalkMsg)
			f.send(t, proto.RerrorMsg{Tag: w.Tag, Ename: ninep.ErrNotFound})
		})
	}()

	c, err := client.Mount(conn, "", 0)
	require.NoError(t, err)
	_, err = c.Root().Walk("missing")
	<-done

	require.Error(t, err)
	var rpcErr *client.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, ninep.ErrNotFound, rpcErr.Ename)
}
