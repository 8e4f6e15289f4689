package proto

import "time"

// Dir is a directory entry: the metadata record returned by Tstat and
// concatenated, one per file, in the data of a directory's Tread
// replies.
type Dir struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  time.Time
	Mtime  time.Time
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string
}

// fixed portion: type[2] dev[4] qid[13] mode[4] atime[4] mtime[4] length[8]
const dirFixedLen = 2 + 4 + QidSize + 4 + 4 + 4 + 8

// EncodeDir renders d to its wire form, including the leading u16
// size field (which, per the protocol, excludes itself).
func EncodeDir(d Dir) []byte {
	body := make([]byte, 0, dirFixedLen+3*len(d.Name))
	body = appendUint16(body, d.Type)
	body = appendUint32(body, d.Dev)
	body = AppendQid(body, d.Qid)
	body = appendUint32(body, d.Mode)
	body = appendUint32(body, uint32(d.Atime.Unix()))
	body = appendUint32(body, uint32(d.Mtime.Unix()))
	body = appendUint64(body, d.Length)
	body = appendString(body, d.Name)
	body = appendString(body, d.Uid)
	body = appendString(body, d.Gid)
	body = appendString(body, d.Muid)

	out := make([]byte, 0, 2+len(body))
	out = appendUint16(out, uint16(len(body)))
	out = append(out, body...)
	return out
}

// DecodeDir decodes one directory entry from the front of b, returning
// the remaining bytes. It fails on truncation or an inconsistent
// declared size.
func DecodeDir(b []byte) (Dir, []byte, error) {
	if len(b) < 2 {
		return Dir{}, b, errShortBuffer
	}
	n := int(getUint16(b[:2]))
	if len(b) < 2+n {
		return Dir{}, b, errShortBuffer
	}
	body, rest := b[2:2+n], b[2+n:]
	if len(body) < dirFixedLen {
		return Dir{}, rest, errShortBuffer
	}

	d := Dir{
		Type: getUint16(body[:2]),
		Dev:  getUint32(body[2:6]),
	}
	qid, body, err := DecodeQid(body[6:])
	if err != nil {
		return Dir{}, rest, err
	}
	d.Qid = qid
	d.Mode = getUint32(body[:4])
	d.Atime = time.Unix(int64(getUint32(body[4:8])), 0)
	d.Mtime = time.Unix(int64(getUint32(body[8:12])), 0)
	d.Length = getUint64(body[12:20])
	body = body[20:]

	var strs [4]string
	for i := range strs {
		var err error
		strs[i], body, err = getString(body)
		if err != nil {
			return Dir{}, rest, err
		}
	}
	if len(body) != 0 {
		return Dir{}, rest, errTrailingData
	}
	d.Name, d.Uid, d.Gid, d.Muid = strs[0], strs[1], strs[2], strs[3]
	return d, rest, nil
}

// DecodeDirs parses b as a concatenation of independently-decodable
// Dir records, as returned by a Tread on a directory fid. A truncated
// trailing record or a record with an empty Name past the first entry
// is an error.
func DecodeDirs(b []byte) ([]Dir, error) {
	var dirs []Dir
	for len(b) > 0 {
		d, rest, err := DecodeDir(b)
		if err != nil {
			return dirs, err
		}
		if d.Name == "" && len(dirs) > 0 {
			return dirs, errShortBuffer
		}
		dirs = append(dirs, d)
		b = rest
	}
	return dirs, nil
}
