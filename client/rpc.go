package client

import (
	"github.com/pkg/errors"

	"github.com/kestrel9p/ninep"
	"github.com/kestrel9p/ninep/proto"
)

// rpc is fsrpc: it assigns the next tag, sends m, and waits for the
// matching reply. The client is synchronous (§4.3, §5): at most one
// outstanding request at a time, enforced by c.mu for the whole
// round trip rather than just tag allocation.
func (c *Client) rpc(m proto.Message) (proto.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rpcLocked(m)
}

// rpcLocked performs the round trip assuming c.mu is already held;
// rpc calls it with the lock taken. A message whose tag is NOTAG (the
// Tversion fsversion sends) keeps that tag; every other message is
// given the next tag.
func (c *Client) rpcLocked(m proto.Message) (proto.Message, error) {
	tag := proto.Tag(m)
	if tag != ninep.NOTAG {
		tag = c.nextTagLocked()
		m = withTag(m, tag)
	}
	wantType := proto.Type(m) + 1

	b := proto.Encode(m)
	if b == nil {
		return nil, errors.Errorf("client: refusing to encode outgoing %T", m)
	}
	if _, err := c.rwc.Write(b); err != nil {
		return nil, errors.Wrap(err, "client: write")
	}

	rb, err := proto.ReadMessage(c.rwc)
	if err != nil {
		return nil, errors.Wrap(err, "client: read")
	}
	reply := proto.Decode(rb)
	if _, ok := reply.(proto.Zero); ok {
		return nil, errors.New("client: malformed reply")
	}
	if re, ok := reply.(proto.RerrorMsg); ok {
		return nil, &RPCError{Ename: re.Ename}
	}
	if proto.Type(reply) != wantType {
		return nil, errors.Errorf("client: reply type %d, want %d", proto.Type(reply), wantType)
	}
	if proto.Tag(reply) != tag {
		return nil, errors.Errorf("client: reply tag %d, want %d", proto.Tag(reply), tag)
	}
	return reply, nil
}

// nextTagLocked returns the next tag, skipping NOTAG. Tag rotation has
// no protocol purpose for a synchronous client with one request in
// flight at a time; it exists for forward compatibility with a
// pipelined client built on the same core.
func (c *Client) nextTagLocked() uint16 {
	c.nextTag++
	if c.nextTag == ninep.NOTAG {
		c.nextTag++
	}
	return c.nextTag
}

// withTag returns m with its Tag field set to tag. Every variant
// carries a Tag field by construction (see proto.Tag); this just
// needs an exhaustive switch to rewrite it immutably.
func withTag(m proto.Message, tag uint16) proto.Message {
	switch m := m.(type) {
	case proto.TversionMsg:
		m.Tag = tag
		return m
	case proto.TauthMsg:
		m.Tag = tag
		return m
	case proto.TflushMsg:
		m.Tag = tag
		return m
	case proto.TattachMsg:
		m.Tag = tag
		return m
	case proto.TwalkMsg:
		m.Tag = tag
		return m
	case proto.TopenMsg:
		m.Tag = tag
		return m
	case proto.TcreateMsg:
		m.Tag = tag
		return m
	case proto.TreadMsg:
		m.Tag = tag
		return m
	case proto.TwriteMsg:
		m.Tag = tag
		return m
	case proto.TclunkMsg:
		m.Tag = tag
		return m
	case proto.TremoveMsg:
		m.Tag = tag
		return m
	case proto.TstatMsg:
		m.Tag = tag
		return m
	case proto.TwstatMsg:
		m.Tag = tag
		return m
	default:
		return m
	}
}
