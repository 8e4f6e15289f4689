package client

import "fmt"

// RPCError wraps an Rerror reply's Ename, so callers can distinguish
// a filesystem-level failure (a well-formed Rerror) from a transport
// or codec failure (an error built or wrapped with github.com/pkg/errors).
// The source conflates the two, returning the same zero-message
// sentinel either way; §9's "open questions" flags this as worth
// correcting in a reimplementation, which is what RPCError is for.
type RPCError struct {
	Op    string
	Ename string
}

func (e *RPCError) Error() string {
	if e.Op == "" {
		return e.Ename
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Ename)
}
