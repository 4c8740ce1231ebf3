package registry

import (
	"encoding/binary"
	"time"
)

// Transport is the abstract "deliver to client" capability: the registry
// core never knows about signals, file
// descriptors, or ports directly, only that a ClientRecord can be handed
// to a Transport for a best-effort, at-most-once delivery attempt.
type Transport interface {
	// Send attempts delivery to c and reports whether it succeeded. A
	// false return never propagates as an error to the caller of post;
	// transport delivery failures are never surfaced, only observed
	// through the deliveries_total metric.
	Send(c *ClientRecord) bool
}

// transports bundles the concrete Transport per NotifyType the dispatcher
// picks between. Constructed once per Registry from its PortSendTimeout.
type transports struct {
	plain      Transport
	signal     Transport
	descriptor Transport
	port       Transport
}

func newTransports(portSendTimeout time.Duration) *transports {
	return &transports{
		plain:      plainTransport{},
		signal:     signalTransport{},
		descriptor: descriptorTransport{},
		port:       portTransport{timeout: portSendTimeout},
	}
}

func (t *transports) forType(nt NotifyType) Transport {
	switch nt {
	case NotifySignal:
		return t.signal
	case NotifyDescriptor:
		return t.descriptor
	case NotifyPort:
		return t.port
	default:
		return t.plain
	}
}

// plainTransport backs both NotifyPlain and NotifyMemorySlot: the client
// polls via check/peek or reads an external memory slot, so there is
// nothing to send.
type plainTransport struct{}

func (plainTransport) Send(*ClientRecord) bool { return true }

// signalTransport sends a Unix signal to the registered pid. Failures are
// never reported and never stop iteration; sendSignal's error is
// intentionally discarded.
type signalTransport struct{}

func (signalTransport) Send(c *ClientRecord) bool {
	if c.Signal.PID <= 0 {
		return false
	}
	_ = sendSignal(c.Signal.PID, c.Signal.Signal)
	return true
}

// descriptorTransport writes the client's token as a 4-byte big-endian
// integer in one syscall. A partial or failed write closes the
// descriptor and nils it out, the Go rendering of "marks it invalid (-1)";
// subsequent sends become no-ops until the client is cancelled.
type descriptorTransport struct{}

func (descriptorTransport) Send(c *ClientRecord) bool {
	if c.Descriptor.FD == nil {
		return false
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], c.Descriptor.Token)

	n, err := c.Descriptor.FD.Write(buf[:])
	if err != nil || n != len(buf) {
		_ = c.Descriptor.FD.Close()
		c.Descriptor.FD = nil
		return false
	}
	return true
}

// portTransport models a local message-port send as a bounded-timeout
// write over a net.Conn (a Unix-domain socket in production, a net.Pipe in
// tests). A failed send is ignored the same way other transports ignore
// delivery failure; cleanup is deferred to cancel.
type portTransport struct {
	timeout time.Duration
}

func (t portTransport) Send(c *ClientRecord) bool {
	if c.Port.Conn == nil {
		return false
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], c.Port.Token)

	_ = c.Port.Conn.SetWriteDeadline(time.Now().Add(t.timeout))
	n, err := c.Port.Conn.Write(buf[:])
	return err == nil && n == len(buf)
}
