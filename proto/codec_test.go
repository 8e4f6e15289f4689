package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionBitExact(t *testing.T) {
	m := TversionMsg{Tag: NOTAG, Msize: 8192, Version: "9P2000"}
	got := Encode(m)
	want := []byte{
		0x13, 0x00, 0x00, 0x00, // size
		0x64,       // Tversion
		0xFF, 0xFF, // tag = NOTAG
		0x00, 0x20, 0x00, 0x00, // msize = 8192
		0x06, 0x00, // version length
		'9', 'P', '2', '0', '0', '0',
	}
	assert.Equal(t, want, got)
}

func roundTrip(t *testing.T, m Message) {
	t.Helper()
	b := Encode(m)
	require.NotNil(t, b)
	got := Decode(b)
	assert.Equal(t, m, got)
	// encode(decode(b)) == b
	assert.Equal(t, b, Encode(got))
}

func TestRoundTripAllVariants(t *testing.T) {
	cases := []Message{
		TversionMsg{Tag: NOTAG, Msize: 8192, Version: "9P2000"},
		RversionMsg{Tag: NOTAG, Msize: 8192, Version: "9P2000"},
		TauthMsg{Tag: 1, Afid: 2, Uname: "glenda", Aname: "/"},
		RauthMsg{Tag: 1, Aqid: Qid{Type: QTAUTH, Version: 0, Path: 99}},
		RerrorMsg{Tag: 1, Ename: "unknown fid"},
		TflushMsg{Tag: 2, Oldtag: 1},
		RflushMsg{Tag: 2},
		TattachMsg{Tag: 1, Fid: 1, Afid: NOFID, Uname: "alice", Aname: ""},
		RattachMsg{Tag: 1, Qid: Qid{Type: QTDIR, Path: 0}},
		TwalkMsg{Tag: 2, Fid: 1, Newfid: 2, Wname: []string{"a", "b"}},
		RwalkMsg{Tag: 2, Wqid: []Qid{{Type: QTDIR, Path: 7}, {Path: 42, Version: 1}}},
		TopenMsg{Tag: 3, Fid: 2, Mode: OREAD},
		RopenMsg{Tag: 3, Qid: Qid{Path: 42, Version: 1}, IOUnit: 0},
		TcreateMsg{Tag: 4, Fid: 1, Name: "new", Perm: 0644, Mode: OWRITE},
		RcreateMsg{Tag: 4, Qid: Qid{Path: 43}, IOUnit: 0},
		TreadMsg{Tag: 5, Fid: 2, Offset: 0, Count: 100},
		RreadMsg{Tag: 5, Data: []byte("hi")},
		TwriteMsg{Tag: 6, Fid: 2, Offset: 10, Data: []byte("data")},
		RwriteMsg{Tag: 6, Count: 4},
		TclunkMsg{Tag: 7, Fid: 2},
		RclunkMsg{Tag: 7},
		TremoveMsg{Tag: 8, Fid: 2},
		RremoveMsg{Tag: 8},
		TstatMsg{Tag: 9, Fid: 1},
		RstatMsg{Tag: 9, Stat: EncodeDir(Dir{Name: "f", Uid: "u", Gid: "g", Muid: "u"})},
		TwstatMsg{Tag: 10, Fid: 1, Stat: EncodeDir(Dir{Name: "f", Uid: "u", Gid: "g", Muid: "u"})},
		RwstatMsg{Tag: 10},
	}
	for _, m := range cases {
		roundTrip(t, m)
	}
}

func TestDecoderRobustnessUnderTruncation(t *testing.T) {
	full := Encode(TattachMsg{Tag: 1, Fid: 1, Afid: NOFID, Uname: "alice", Aname: "/srv"})
	require.NotEmpty(t, full)
	for n := 1; n < len(full); n++ {
		got := Decode(full[:n])
		assert.Equal(t, Zero{}, got, "truncated to %d bytes should decode to Zero", n)
	}
}

func TestEncodeTwalkTooManyNamesFails(t *testing.T) {
	names := make([]string, MaxWalkElem+1)
	for i := range names {
		names[i] = "x"
	}
	got := Encode(TwalkMsg{Tag: 1, Fid: 1, Newfid: 2, Wname: names})
	assert.Nil(t, got)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	b := Encode(TclunkMsg{Tag: 1, Fid: 1})
	b[4] = 200 // not a valid type code
	assert.Equal(t, Zero{}, Decode(b))
}

func TestDirConcatenation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	entries := []Dir{
		{Name: "a", Uid: "u", Gid: "g", Muid: "u", Mtime: now, Atime: now, Length: 1},
		{Name: "b", Uid: "u", Gid: "g", Muid: "u", Mtime: now, Atime: now, Length: 2},
		{Name: "c", Uid: "u", Gid: "g", Muid: "u", Mtime: now, Atime: now, Length: 3},
	}
	var buf []byte
	for _, d := range entries {
		buf = append(buf, EncodeDir(d)...)
	}
	got, err := DecodeDirs(buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, d := range entries {
		assert.Equal(t, d.Name, got[i].Name)
		assert.Equal(t, d.Length, got[i].Length)
	}
}
