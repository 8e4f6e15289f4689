// Portions of the constant declarations below are lifted from the
// go9p library. As such, the license header and full license file are
// kept intact here and at LICENSE.go9p.

// Copyright 2009 The Go9p Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.go9p file.

// Package proto implements the wire encoding for 9P2000: message
// framing, the thirteen request/reply pairs plus Rerror/Tflush, and
// directory-entry (stat) records. Encode and Decode are pure
// functions over byte slices; neither performs I/O.
package proto

// Message type codes. Replies are always one greater than the
// request they answer; code 106 (Terror) is unused on the wire.
const (
	Tversion uint8 = 100 + iota
	Rversion
	Tauth
	Rauth
	Tattach
	Rattach
	Terror // never sent
	Rerror
	Tflush
	Rflush
	Twalk
	Rwalk
	Topen
	Ropen
	Tcreate
	Rcreate
	Tread
	Rread
	Twrite
	Rwrite
	Tclunk
	Rclunk
	Tremove
	Rremove
	Tstat
	Rstat
	Twstat
	Rwstat
)

// Size and port defaults.
const (
	// DefaultMsize is the message size a fresh client proposes in its
	// Tversion request.
	DefaultMsize = 8192 + IOHeaderSize
	// IOHeaderSize is the number of bytes of Tread/Rread/Twrite
	// overhead that must be subtracted from msize to get the maximum
	// data payload of a single read or write.
	IOHeaderSize = 24
	// DefaultPort is the usual TCP port for 9P file servers.
	DefaultPort = 564
)

// QidType is the type of a file, encoded as the high byte of its
// Stat.Mode and mirrored in the type field of a Qid.
type QidType uint8

// Qid type bits.
const (
	QTDIR     QidType = 0x80 // directories
	QTAPPEND  QidType = 0x40 // append only files
	QTEXCL    QidType = 0x20 // exclusive use files
	QTMOUNT   QidType = 0x10 // mounted channel
	QTAUTH    QidType = 0x08 // authentication file (afid)
	QTTMP     QidType = 0x04 // non-backed-up file
	QTSYMLINK QidType = 0x02 // symbolic link
	QTLINK    QidType = 0x01 // hard link
	QTFILE    QidType = 0x00 // plain file
)

// IsDir reports whether t has the directory bit set.
func (t QidType) IsDir() bool { return t&QTDIR != 0 }

// Open mode bits, used in Topen.Mode and Tcreate.Mode. The low two
// bits select an access mode; OTRUNC/OCEXEC/ORCLOSE are additional
// flags that may be or'd in (except with OEXEC).
const (
	OREAD   uint8 = 0  // open for read
	OWRITE  uint8 = 1  // open for write
	ORDWR   uint8 = 2  // open for read and write
	OEXEC   uint8 = 3  // execute (read, with permission check)
	OTRUNC  uint8 = 16 // truncate file on open
	OCEXEC  uint8 = 32 // close on exec (unused by the 9P2000 core)
	ORCLOSE uint8 = 64 // remove file on clunk
)

// AccessMode masks off the truncate/cexec/rclose bits of an open mode
// to get the two-bit access mode (OREAD/OWRITE/ORDWR/OEXEC).
func AccessMode(mode uint8) uint8 { return mode & 3 }

// Perm bits: the high byte declares the file type, the low 9 bits are
// unix-style rwx permissions.
const (
	DMDIR       uint32 = 0x80000000 // directory
	DMAPPEND    uint32 = 0x40000000 // append only
	DMEXCL      uint32 = 0x20000000 // exclusive use
	DMMOUNT     uint32 = 0x10000000 // mounted channel
	DMAUTH      uint32 = 0x08000000 // authentication file
	DMTMP       uint32 = 0x04000000 // non-backed-up file
	DMSYMLINK   uint32 = 0x02000000 // symbolic link
	DMLINK      uint32 = 0x01000000 // hard link
	DMREAD      uint32 = 0x4        // owner read permission
	DMWRITE     uint32 = 0x2        // owner write permission
	DMEXEC      uint32 = 0x1        // owner execute permission
)

// Reserved sentinel values.
const (
	NOTAG uint16 = 0xFFFF     // tag reserved for Tversion
	NOFID uint32 = 0xFFFFFFFF // fid meaning "no fid"
)

// Protocol limits.
const (
	// MaxWalkElem is the maximum number of path elements a single
	// Twalk message may carry.
	MaxWalkElem = 16
	// MaxVersionLen bounds the version string in Tversion/Rversion.
	MaxVersionLen = 20
	// MaxUidLen bounds uid/gid/muid strings in a Stat record.
	MaxUidLen = 45
	// MaxFilenameLen bounds name fields (Twalk elements, Tcreate
	// names, Stat.Name).
	MaxFilenameLen = 512
)

// Version is the only protocol version this package speaks.
const Version = "9P2000"
