package memfs_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel9p/ninep/client"
	"github.com/kestrel9p/ninep/internal/netutil"
	"github.com/kestrel9p/ninep/memfs"
	"github.com/kestrel9p/ninep/server"
)

func serve(t *testing.T, fs *memfs.FS) *client.Client {
	t.Helper()
	l := netutil.NewPipeListener()
	t.Cleanup(func() { l.Close() })

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		srv := server.New(conn, fs)
		srv.Run()
	}()

	conn, err := l.Dial()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c, err := client.Mount(conn, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMountAttach(t *testing.T) {
	fs := memfs.NewFS()
	c := serve(t, fs)
	assert.True(t, c.Root().Qid().Type.IsDir())
}

func TestOpenReadFile(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("greeting", 0644, []byte("hello, 9p\n"))
	c := serve(t, fs)

	fid, err := c.Root().Open("greeting", 0)
	require.NoError(t, err)
	defer fid.Clunk()

	data, err := io.ReadAll(fid)
	require.NoError(t, err)
	assert.Equal(t, "hello, 9p\n", string(data))
}

func TestCreateWrite(t *testing.T) {
	fs := memfs.NewFS()
	c := serve(t, fs)

	fid, err := c.Root().Create("new.txt", 1 /* OWRITE */, 0644)
	require.NoError(t, err)
	n, err := fid.Write([]byte("written"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	fid.Clunk()

	readFid, err := c.Root().Open("new.txt", 0)
	require.NoError(t, err)
	defer readFid.Clunk()
	data, err := io.ReadAll(readFid)
	require.NoError(t, err)
	assert.Equal(t, "written", string(data))
}

func TestRemove(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("gone", 0644, []byte("x"))
	c := serve(t, fs)

	require.NoError(t, c.Root().Remove("gone"))
	_, err := c.Root().Stat("gone")
	assert.Error(t, err)
}

// TestFidAfterClunk covers testable property 7: a Tread on a fid that
// was just clunked produces Rerror{"unknown fid"}.
func TestFidAfterClunk(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("f", 0644, []byte("data"))
	c := serve(t, fs)

	fid, err := c.Root().Open("f", 0)
	require.NoError(t, err)
	require.NoError(t, fid.ClunkErr())

	buf := make([]byte, 4)
	_, err = fid.ReadAt(buf, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fid")
}

// TestDirReadConcatenation covers testable property 8: a directory
// read returns the byte-concatenation of its entries' encoded records.
func TestDirReadConcatenation(t *testing.T) {
	fs := memfs.NewFS()
	fs.WriteFile("a", 0644, []byte("1"))
	fs.WriteFile("b", 0644, []byte("22"))
	fs.WriteFile("c", 0644, []byte("333"))
	c := serve(t, fs)

	dir, err := c.Root().Open("", 0)
	require.NoError(t, err)
	defer dir.Clunk()

	dirs, err := dir.DirReadAll()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, d := range dirs {
		names[d.Name] = true
	}
	assert.True(t, names["a"] && names["b"] && names["c"])
}

// TestPartialWalkFails covers the client side of testable Scenario D:
// walking through a path whose second element does not exist makes the
// client's chained Walk return an error.
func TestPartialWalkFails(t *testing.T) {
	fs := memfs.NewFS()
	fs.Mkdir("dir", 0755)
	c := serve(t, fs)

	_, err := c.Root().Walk("dir/missing")
	assert.Error(t, err)
}
