package ninep

// Canonical error strings. A conforming server's Rerror.Ename should
// be one of these whenever the failure matches; clients may switch on
// these values to detect specific conditions rather than pattern
// matching on arbitrary text.
const (
	ErrBadOffset        = "bad offset"
	ErrBotch            = "9P protocol botch"
	ErrCreateNondir     = "create in non-directory"
	ErrDupFid           = "duplicate fid"
	ErrDupTag           = "duplicate tag"
	ErrIsDir            = "is a directory"
	ErrCreateProhibited = "create prohibited"
	ErrRemoveProhibited = "remove prohibited"
	ErrStatProhibited   = "stat prohibited"
	ErrNotFound         = "file not found"
	ErrWstatProhibited  = "wstat prohibited"
	ErrPermission       = "permission denied"
	ErrUnknownFid       = "unknown fid"
	ErrWalkNondir       = "walk in non-directory"
)
