package proto

// Size returns the exact number of bytes Encode will produce for m,
// including the 4-byte length prefix, 1-byte type, and 2-byte tag.
// Size returns an error for a Twalk/Rwalk carrying more than
// MaxWalkElem names, or for a message type Encode does not know how
// to render (Zero, or anything outside the Message set).
func Size(m Message) (uint32, error) {
	const header = 4 + 1 + 2

	switch m := m.(type) {
	case TversionMsg:
		return header + 4 + 2 + uint32(len(m.Version)), nil
	case RversionMsg:
		return header + 4 + 2 + uint32(len(m.Version)), nil
	case TauthMsg:
		return header + 4 + 2 + uint32(len(m.Uname)) + 2 + uint32(len(m.Aname)), nil
	case RauthMsg:
		return header + QidSize, nil
	case RerrorMsg:
		return header + 2 + uint32(len(m.Ename)), nil
	case TflushMsg:
		return header + 2, nil
	case RflushMsg:
		return header, nil
	case TattachMsg:
		return header + 4 + 4 + 2 + uint32(len(m.Uname)) + 2 + uint32(len(m.Aname)), nil
	case RattachMsg:
		return header + QidSize, nil
	case TwalkMsg:
		if len(m.Wname) > MaxWalkElem {
			return 0, errTooManyNames
		}
		n := header + 4 + 4 + 2
		for _, name := range m.Wname {
			n += 2 + uint32(len(name))
		}
		return n, nil
	case RwalkMsg:
		if len(m.Wqid) > MaxWalkElem {
			return 0, errTooManyNames
		}
		return header + 2 + uint32(len(m.Wqid))*QidSize, nil
	case TopenMsg:
		return header + 4 + 1, nil
	case RopenMsg:
		return header + QidSize + 4, nil
	case TcreateMsg:
		return header + 4 + 2 + uint32(len(m.Name)) + 4 + 1, nil
	case RcreateMsg:
		return header + QidSize + 4, nil
	case TreadMsg:
		return header + 4 + 8 + 4, nil
	case RreadMsg:
		return header + 4 + uint32(len(m.Data)), nil
	case TwriteMsg:
		return header + 4 + 8 + 4 + uint32(len(m.Data)), nil
	case RwriteMsg:
		return header + 4, nil
	case TclunkMsg:
		return header + 4, nil
	case RclunkMsg:
		return header, nil
	case TremoveMsg:
		return header + 4, nil
	case RremoveMsg:
		return header, nil
	case TstatMsg:
		return header + 4, nil
	case RstatMsg:
		return header + 2 + uint32(len(m.Stat)), nil
	case TwstatMsg:
		return header + 4 + 2 + uint32(len(m.Stat)), nil
	case RwstatMsg:
		return header, nil
	default:
		return 0, errUnknownType
	}
}

// Encode renders m to its exact wire form. On failure (an oversize
// walk, or a type Size rejects) it returns a nil slice, matching the
// "encode failure" contract of an empty byte string.
func Encode(m Message) []byte {
	size, err := Size(m)
	if err != nil {
		return nil
	}
	buf := make([]byte, 0, size)
	buf = appendUint32(buf, size)
	buf = append(buf, Type(m))
	buf = appendUint16(buf, Tag(m))

	switch m := m.(type) {
	case TversionMsg:
		buf = appendUint32(buf, m.Msize)
		buf = appendString(buf, m.Version)
	case RversionMsg:
		buf = appendUint32(buf, m.Msize)
		buf = appendString(buf, m.Version)
	case TauthMsg:
		buf = appendUint32(buf, m.Afid)
		buf = appendString(buf, m.Uname)
		buf = appendString(buf, m.Aname)
	case RauthMsg:
		buf = AppendQid(buf, m.Aqid)
	case RerrorMsg:
		buf = appendString(buf, m.Ename)
	case TflushMsg:
		buf = appendUint16(buf, m.Oldtag)
	case RflushMsg:
		// no payload
	case TattachMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendUint32(buf, m.Afid)
		buf = appendString(buf, m.Uname)
		buf = appendString(buf, m.Aname)
	case RattachMsg:
		buf = AppendQid(buf, m.Qid)
	case TwalkMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendUint32(buf, m.Newfid)
		buf = appendUint16(buf, uint16(len(m.Wname)))
		for _, name := range m.Wname {
			buf = appendString(buf, name)
		}
	case RwalkMsg:
		buf = appendUint16(buf, uint16(len(m.Wqid)))
		for _, q := range m.Wqid {
			buf = AppendQid(buf, q)
		}
	case TopenMsg:
		buf = appendUint32(buf, m.Fid)
		buf = append(buf, m.Mode)
	case RopenMsg:
		buf = AppendQid(buf, m.Qid)
		buf = appendUint32(buf, m.IOUnit)
	case TcreateMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendString(buf, m.Name)
		buf = appendUint32(buf, m.Perm)
		buf = append(buf, m.Mode)
	case RcreateMsg:
		buf = AppendQid(buf, m.Qid)
		buf = appendUint32(buf, m.IOUnit)
	case TreadMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendUint64(buf, m.Offset)
		buf = appendUint32(buf, m.Count)
	case RreadMsg:
		buf = appendUint32(buf, uint32(len(m.Data)))
		buf = append(buf, m.Data...)
	case TwriteMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendUint64(buf, m.Offset)
		buf = appendUint32(buf, uint32(len(m.Data)))
		buf = append(buf, m.Data...)
	case RwriteMsg:
		buf = appendUint32(buf, m.Count)
	case TclunkMsg:
		buf = appendUint32(buf, m.Fid)
	case RclunkMsg:
		// no payload
	case TremoveMsg:
		buf = appendUint32(buf, m.Fid)
	case RremoveMsg:
		// no payload
	case TstatMsg:
		buf = appendUint32(buf, m.Fid)
	case RstatMsg:
		buf = appendString(buf, string(m.Stat))
	case TwstatMsg:
		buf = appendUint32(buf, m.Fid)
		buf = appendString(buf, string(m.Stat))
	case RwstatMsg:
		// no payload
	}
	if uint32(len(buf)) != size {
		// Size and Encode have drifted apart; this is a bug in this
		// package, not a caller error.
		panic("proto: encoded length does not match Size")
	}
	return buf
}

// Decode parses a single complete 9P message from b, which must
// contain exactly one message (as produced by the framed reader in
// frame.go). Decode never panics: every field access is bounds
// checked, and any malformed input yields Zero{}. Decoded strings and
// byte slices are copies; b may be reused or discarded once Decode
// returns.
func Decode(b []byte) Message {
	if len(b) < 7 {
		return Zero{}
	}
	size := getUint32(b[:4])
	if uint64(size) != uint64(len(b)) {
		return Zero{}
	}
	typ := b[4]
	tag := getUint16(b[5:7])
	body := b[7:]

	switch typ {
	case Tversion:
		msize, version, ok := decodeMsize1Str(body)
		if !ok {
			return Zero{}
		}
		return TversionMsg{Tag: tag, Msize: msize, Version: version}
	case Rversion:
		msize, version, ok := decodeMsize1Str(body)
		if !ok {
			return Zero{}
		}
		return RversionMsg{Tag: tag, Msize: msize, Version: version}
	case Tauth:
		if len(body) < 4 {
			return Zero{}
		}
		afid := getUint32(body[:4])
		uname, rest, err := getString(body[4:])
		if err != nil {
			return Zero{}
		}
		aname, rest, err := getString(rest)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return TauthMsg{Tag: tag, Afid: afid, Uname: uname, Aname: aname}
	case Rauth:
		qid, rest, err := DecodeQid(body)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return RauthMsg{Tag: tag, Aqid: qid}
	case Rerror:
		ename, rest, err := getString(body)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return RerrorMsg{Tag: tag, Ename: ename}
	case Tflush:
		if len(body) != 2 {
			return Zero{}
		}
		return TflushMsg{Tag: tag, Oldtag: getUint16(body)}
	case Rflush:
		if len(body) != 0 {
			return Zero{}
		}
		return RflushMsg{Tag: tag}
	case Tattach:
		if len(body) < 8 {
			return Zero{}
		}
		fid := getUint32(body[:4])
		afid := getUint32(body[4:8])
		uname, rest, err := getString(body[8:])
		if err != nil {
			return Zero{}
		}
		aname, rest, err := getString(rest)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return TattachMsg{Tag: tag, Fid: fid, Afid: afid, Uname: uname, Aname: aname}
	case Rattach:
		qid, rest, err := DecodeQid(body)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return RattachMsg{Tag: tag, Qid: qid}
	case Twalk:
		if len(body) < 10 {
			return Zero{}
		}
		fid := getUint32(body[:4])
		newfid := getUint32(body[4:8])
		n := int(getUint16(body[8:10]))
		if n > MaxWalkElem {
			return Zero{}
		}
		rest := body[10:]
		names := make([]string, 0, n)
		for i := 0; i < n; i++ {
			var name string
			var err error
			name, rest, err = getString(rest)
			if err != nil {
				return Zero{}
			}
			names = append(names, name)
		}
		if len(rest) != 0 {
			return Zero{}
		}
		return TwalkMsg{Tag: tag, Fid: fid, Newfid: newfid, Wname: names}
	case Rwalk:
		if len(body) < 2 {
			return Zero{}
		}
		n := int(getUint16(body[:2]))
		if n > MaxWalkElem {
			return Zero{}
		}
		rest := body[2:]
		if len(rest) != n*QidSize {
			return Zero{}
		}
		wqid := make([]Qid, n)
		for i := 0; i < n; i++ {
			q, next, err := DecodeQid(rest)
			if err != nil {
				return Zero{}
			}
			wqid[i] = q
			rest = next
		}
		return RwalkMsg{Tag: tag, Wqid: wqid}
	case Topen:
		if len(body) != 5 {
			return Zero{}
		}
		return TopenMsg{Tag: tag, Fid: getUint32(body[:4]), Mode: body[4]}
	case Ropen:
		if len(body) != QidSize+4 {
			return Zero{}
		}
		qid, rest, err := DecodeQid(body)
		if err != nil {
			return Zero{}
		}
		return RopenMsg{Tag: tag, Qid: qid, IOUnit: getUint32(rest)}
	case Tcreate:
		if len(body) < 4 {
			return Zero{}
		}
		fid := getUint32(body[:4])
		name, rest, err := getString(body[4:])
		if err != nil || len(rest) != 5 {
			return Zero{}
		}
		perm := getUint32(rest[:4])
		mode := rest[4]
		return TcreateMsg{Tag: tag, Fid: fid, Name: name, Perm: perm, Mode: mode}
	case Rcreate:
		if len(body) != QidSize+4 {
			return Zero{}
		}
		qid, rest, err := DecodeQid(body)
		if err != nil {
			return Zero{}
		}
		return RcreateMsg{Tag: tag, Qid: qid, IOUnit: getUint32(rest)}
	case Tread:
		if len(body) != 16 {
			return Zero{}
		}
		return TreadMsg{
			Tag:    tag,
			Fid:    getUint32(body[:4]),
			Offset: getUint64(body[4:12]),
			Count:  getUint32(body[12:16]),
		}
	case Rread:
		if len(body) < 4 {
			return Zero{}
		}
		n := getUint32(body[:4])
		if uint64(n) != uint64(len(body)-4) {
			return Zero{}
		}
		data := append([]byte(nil), body[4:]...)
		return RreadMsg{Tag: tag, Data: data}
	case Twrite:
		if len(body) < 16 {
			return Zero{}
		}
		fid := getUint32(body[:4])
		offset := getUint64(body[4:12])
		n := getUint32(body[12:16])
		if uint64(n) != uint64(len(body)-16) {
			return Zero{}
		}
		data := append([]byte(nil), body[16:]...)
		return TwriteMsg{Tag: tag, Fid: fid, Offset: offset, Data: data}
	case Rwrite:
		if len(body) != 4 {
			return Zero{}
		}
		return RwriteMsg{Tag: tag, Count: getUint32(body)}
	case Tclunk:
		if len(body) != 4 {
			return Zero{}
		}
		return TclunkMsg{Tag: tag, Fid: getUint32(body)}
	case Rclunk:
		if len(body) != 0 {
			return Zero{}
		}
		return RclunkMsg{Tag: tag}
	case Tremove:
		if len(body) != 4 {
			return Zero{}
		}
		return TremoveMsg{Tag: tag, Fid: getUint32(body)}
	case Rremove:
		if len(body) != 0 {
			return Zero{}
		}
		return RremoveMsg{Tag: tag}
	case Tstat:
		if len(body) != 4 {
			return Zero{}
		}
		return TstatMsg{Tag: tag, Fid: getUint32(body)}
	case Rstat:
		stat, rest, err := getString(body)
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return RstatMsg{Tag: tag, Stat: []byte(stat)}
	case Twstat:
		if len(body) < 4 {
			return Zero{}
		}
		fid := getUint32(body[:4])
		stat, rest, err := getString(body[4:])
		if err != nil || len(rest) != 0 {
			return Zero{}
		}
		return TwstatMsg{Tag: tag, Fid: fid, Stat: []byte(stat)}
	case Rwstat:
		if len(body) != 0 {
			return Zero{}
		}
		return RwstatMsg{Tag: tag}
	default:
		return Zero{}
	}
}

// decodeMsize1Str decodes the common Tversion/Rversion payload:
// msize[4] version[s].
func decodeMsize1Str(body []byte) (uint32, string, bool) {
	if len(body) < 4 {
		return 0, "", false
	}
	msize := getUint32(body[:4])
	version, rest, err := getString(body[4:])
	if err != nil || len(rest) != 0 {
		return 0, "", false
	}
	return msize, version, true
}
