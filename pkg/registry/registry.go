// Package registry implements the in-memory name-based notification
// registry and dispatch engine: the name table, client table, client-id
// allocator, hierarchical access controller, and multi-transport
// dispatcher, composed under a single facade and a single mutex.
package registry

import (
	"context"
	"net"
	"os"
	"sync"
	"time"

	"github.com/marmos91/notifyd/internal/logger"
)

// Options configures a Registry at construction. See pkg/config's
// RegistryConfig for how these map onto the daemon's configuration file.
type Options struct {
	// UseLocks toggles the facade's internal mutex. Disabling it is only
	// safe for single-threaded callers.
	UseLocks bool

	// BucketCount sizes the name and client tables' initial allocation.
	BucketCount int

	// PortSendTimeout bounds the port transport's blocking send.
	PortSendTimeout time.Duration
}

// DefaultOptions returns the tunables used when the daemon's configuration
// leaves the registry section unset.
func DefaultOptions() Options {
	return Options{
		UseLocks:        true,
		BucketCount:     8192,
		PortSendTimeout: 50 * time.Millisecond,
	}
}

// Registry is component G, the public facade composing A-F under one lock.
type Registry struct {
	mu       sync.Mutex
	useLocks bool

	names      *Table[string, *NameRecord]
	clients    *Table[uint32, *ClientRecord]
	allocator  *IDAllocator
	access     *AccessController
	transports *transports

	metrics *Metrics
}

// New constructs a Registry with an empty name space. Call SetMetrics
// afterward to attach a Prometheus registerer; Registry works without one
// (observeOperation/observeDelivery are nil-safe).
func New(opts Options) *Registry {
	return &Registry{
		useLocks:   opts.UseLocks,
		names:      NewTable[string, *NameRecord](opts.BucketCount),
		clients:    NewTable[uint32, *ClientRecord](opts.BucketCount),
		allocator:  NewIDAllocator(),
		access:     NewAccessController(),
		transports: newTransports(opts.PortSendTimeout),
	}
}

// SetMetrics attaches m so every subsequent operation and delivery is
// observed. Pass nil to detach (e.g. in tests that don't care).
func (r *Registry) SetMetrics(m *Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

func (r *Registry) lock() {
	if r.useLocks {
		r.mu.Lock()
	}
}

func (r *Registry) unlock() {
	if r.useLocks {
		r.mu.Unlock()
	}
}

// Stats is the bulk-introspection counters served by the admin HTTP
// /debug/stats endpoint. The Prometheus gauges read the same counts
// through namesLen, clientsLen, and controlledLen.
type Stats struct {
	Names           int
	Clients         int
	ControlledNames int
	NextID          uint32
	FreeListLen     int
}

// Stats reports current registry-wide counters.
func (r *Registry) Stats() Stats {
	r.lock()
	defer r.unlock()
	return Stats{
		Names:           r.names.Len(),
		Clients:         r.clients.Len(),
		ControlledNames: len(r.access.controlled),
		NextID:          r.allocator.NextID(),
		FreeListLen:     r.allocator.FreeCount(),
	}
}

// DebugNames returns a point-in-time snapshot of every name record, for the
// admin HTTP surface's read-only /debug/names dump. Each returned record
// is a copy taken under the lock; callers must not mutate the Clients
// slices, which are shared with the live records.
func (r *Registry) DebugNames() []*NameRecord {
	r.lock()
	defer r.unlock()
	live := r.names.Snapshot()
	out := make([]*NameRecord, 0, len(live))
	for _, n := range live {
		cp := *n
		out = append(out, &cp)
	}
	return out
}

func (r *Registry) namesLen() int {
	r.lock()
	defer r.unlock()
	return r.names.Len()
}

func (r *Registry) clientsLen() int {
	r.lock()
	defer r.unlock()
	return r.clients.Len()
}

func (r *Registry) controlledLen() int {
	r.lock()
	defer r.unlock()
	return len(r.access.controlled)
}

// finish logs the outcome of op at Debug (or Warn on a non-OK status) and
// records it in metrics, then returns status so call sites can write
// `return r.finish(...)`.
func (r *Registry) finish(ctx context.Context, op, name string, clientID uint32, status Status) Status {
	fields := make([]any, 0, 4)
	fields = append(fields, logger.Operation(op))
	if name != "" {
		fields = append(fields, logger.Name(name))
	}
	if clientID != 0 {
		fields = append(fields, logger.ClientID(clientID))
	}
	fields = append(fields, logger.Status(int(status)))

	if status == StatusOK {
		logger.DebugCtx(ctx, "registry operation", fields...)
	} else {
		logger.WarnCtx(ctx, "registry operation failed", fields...)
	}

	r.metrics.observeOperation(op, status)
	return status
}

func (r *Registry) fail(ctx context.Context, op, name string, clientID uint32, err error) Status {
	return r.finish(ctx, op, name, clientID, statusOf(err))
}

// resolveOrCreateName creates a name record the first time it's
// referenced by a register or set-owner/set-access call.
func (r *Registry) resolveOrCreateName(name string) *NameRecord {
	if n, ok := r.names.Get(name); ok {
		return n
	}
	n := newNameRecord(name)
	r.names.Set(name, n)
	return n
}

func (r *Registry) lookupClient(id uint32) (*ClientRecord, *OpError) {
	c, ok := r.clients.Get(id)
	if !ok {
		return nil, errInvalidToken(id)
	}
	return c, nil
}

func (r *Registry) registerClient(n *NameRecord, session string, nt NotifyType) *ClientRecord {
	c := &ClientRecord{
		ID:      r.allocator.Allocate(),
		Name:    n,
		Type:    nt,
		Session: session,
	}
	n.addClient(c)
	r.clients.Set(c.ID, c)
	return c
}

// maybeFree removes n from the name table once nothing pins it: no
// subscribers, no controlled-list membership, and no outstanding
// get_check_addr handles.
func (r *Registry) maybeFree(n *NameRecord) {
	if n.CanFree() {
		r.names.Delete(n.Name)
	}
}

func (r *Registry) releaseClient(c *ClientRecord) {
	n := c.Name
	n.removeClient(c.ID)
	r.releaseTransportResources(c)
	r.clients.Delete(c.ID)
	r.allocator.Release(c.ID)
	r.maybeFree(n)
}

func (r *Registry) releaseTransportResources(c *ClientRecord) {
	switch c.Type {
	case NotifyDescriptor:
		if c.Descriptor.FD != nil {
			_ = c.Descriptor.FD.Close()
			c.Descriptor.FD = nil
		}
	case NotifyPort:
		if c.Port.Conn != nil {
			_ = c.Port.Conn.Close()
			c.Port.Conn = nil
		}
	}
}

func (r *Registry) deliver(n *NameRecord) {
	for _, c := range n.Clients {
		t := r.transports.forType(c.Type)
		ok := t.Send(c)
		r.metrics.observeDelivery(c.Type, ok)
	}
}

// RegisterPlain implements register_plain: creates the name if
// absent, read-checks, and allocates a plain (or memory-slot, if slot !=
// NoSlot) subscriber.
func (r *Registry) RegisterPlain(ctx context.Context, name, session string, slot int32, uid, gid uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	if !r.access.Check(n, uid, gid, RequestRead) {
		r.maybeFree(n)
		return 0, r.fail(ctx, "register_plain", name, 0, errNotAuthorized(name))
	}

	nt := NotifyPlain
	if slot != NoSlot {
		nt = NotifyMemorySlot
		n.Slot = slot
	}

	c := r.registerClient(n, session, nt)
	return c.ID, r.finish(ctx, "register_plain", name, c.ID, StatusOK)
}

// RegisterSignal implements register_signal: pid is the caller-resolved
// target of the task→pid capability, resolution of which is left to the
// front-end.
func (r *Registry) RegisterSignal(ctx context.Context, name, session string, pid int32, signal int, uid, gid uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	if !r.access.Check(n, uid, gid, RequestRead) {
		r.maybeFree(n)
		return 0, r.fail(ctx, "register_signal", name, 0, errNotAuthorized(name))
	}

	c := r.registerClient(n, session, NotifySignal)
	c.Signal = SignalParams{PID: pid, Signal: signal}
	return c.ID, r.finish(ctx, "register_signal", name, c.ID, StatusOK)
}

// RegisterDescriptor implements register_descriptor: opens path write-only
// non-blocking, returning INVALID_FILE on failure.
func (r *Registry) RegisterDescriptor(ctx context.Context, name, session, path string, token uint32, uid, gid uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	if !r.access.Check(n, uid, gid, RequestRead) {
		r.maybeFree(n)
		return 0, r.fail(ctx, "register_descriptor", name, 0, errNotAuthorized(name))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_NONBLOCK, 0)
	if err != nil {
		r.maybeFree(n)
		return 0, r.fail(ctx, "register_descriptor", name, 0, errInvalidFile(name, err))
	}

	c := r.registerClient(n, session, NotifyDescriptor)
	c.Descriptor = DescriptorParams{FD: f, Token: token}
	return c.ID, r.finish(ctx, "register_descriptor", name, c.ID, StatusOK)
}

// RegisterPort implements register_port: conn is the caller-supplied
// message-port abstraction (a dialed net.Conn in production).
func (r *Registry) RegisterPort(ctx context.Context, name, session string, conn net.Conn, token uint32, uid, gid uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	if !r.access.Check(n, uid, gid, RequestRead) {
		r.maybeFree(n)
		return 0, r.fail(ctx, "register_port", name, 0, errNotAuthorized(name))
	}

	c := r.registerClient(n, session, NotifyPort)
	c.Port = PortParams{Conn: conn, Token: token}
	return c.ID, r.finish(ctx, "register_port", name, c.ID, StatusOK)
}

// Cancel implements cancel: unknown ids are a no-op, not an error.
func (r *Registry) Cancel(ctx context.Context, clientID uint32) Status {
	r.lock()
	defer r.unlock()

	c, ok := r.clients.Get(clientID)
	if !ok {
		return r.finish(ctx, "cancel", "", clientID, StatusOK)
	}

	name := c.Name.Name
	r.releaseClient(c)
	return r.finish(ctx, "cancel", name, clientID, StatusOK)
}

// CancelSession implements cancel_session: snapshots matching
// clients before mutating, so cancelling one doesn't perturb the scan.
func (r *Registry) CancelSession(ctx context.Context, session string) Status {
	r.lock()
	defer r.unlock()

	var matches []*ClientRecord
	for _, c := range r.clients.Snapshot() {
		if c.Session == session {
			matches = append(matches, c)
		}
	}

	for _, c := range matches {
		r.releaseClient(c)
	}

	return r.finish(ctx, "cancel_session", "", 0, StatusOK)
}

// Post implements post: write-checks, increments val, and
// delivers to every subscriber. Delivery failures never roll back the
// increment.
func (r *Registry) Post(ctx context.Context, name string, uid, gid uint32) Status {
	r.lock()
	defer r.unlock()

	n, ok := r.names.Get(name)
	if !ok {
		return r.fail(ctx, "post", name, 0, errInvalidName(name))
	}
	if !r.access.Check(n, uid, gid, RequestWrite) {
		return r.fail(ctx, "post", name, 0, errNotAuthorized(name))
	}

	n.Val++
	r.deliver(n)

	return r.finish(ctx, "post", name, 0, StatusOK)
}

// Check implements check: reports 1 and advances lastval iff val changed
// since the client's last check.
func (r *Registry) Check(ctx context.Context, clientID uint32) (int, Status) {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return 0, r.fail(ctx, "check", "", clientID, err)
	}

	flag := 0
	if c.Name.Val != c.LastVal {
		flag = 1
		c.LastVal = c.Name.Val
	}

	return flag, r.finish(ctx, "check", c.Name.Name, clientID, StatusOK)
}

// Peek implements peek: reads val without disturbing lastval.
func (r *Registry) Peek(ctx context.Context, clientID uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return 0, r.fail(ctx, "peek", "", clientID, err)
	}

	return c.Name.Val, r.finish(ctx, "peek", c.Name.Name, clientID, StatusOK)
}

// GetVal implements get_val.
func (r *Registry) GetVal(ctx context.Context, clientID uint32) (uint32, Status) {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return 0, r.fail(ctx, "get_val", "", clientID, err)
	}

	return c.Name.Val, r.finish(ctx, "get_val", c.Name.Name, clientID, StatusOK)
}

// SetVal implements set_val: write-checks before writing the 32-bit
// counter directly. Wraps modulo 2^32 like any other uint32 increment
// (post already relies on this; direct writes inherit the same wraparound).
func (r *Registry) SetVal(ctx context.Context, clientID uint32, val, uid, gid uint32) Status {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return r.fail(ctx, "set_val", "", clientID, err)
	}
	if !r.access.Check(c.Name, uid, gid, RequestWrite) {
		return r.fail(ctx, "set_val", c.Name.Name, clientID, errNotAuthorized(c.Name.Name))
	}

	c.Name.Val = val
	return r.finish(ctx, "set_val", c.Name.Name, clientID, StatusOK)
}

// GetState implements get_state.
func (r *Registry) GetState(ctx context.Context, clientID uint32) (uint64, Status) {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return 0, r.fail(ctx, "get_state", "", clientID, err)
	}

	return c.Name.State, r.finish(ctx, "get_state", c.Name.Name, clientID, StatusOK)
}

// SetState implements set_state: write-checks before writing the 64-bit
// opaque state.
func (r *Registry) SetState(ctx context.Context, clientID uint32, state uint64, uid, gid uint32) Status {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return r.fail(ctx, "set_state", "", clientID, err)
	}
	if !r.access.Check(c.Name, uid, gid, RequestWrite) {
		return r.fail(ctx, "set_state", c.Name.Name, clientID, errNotAuthorized(c.Name.Name))
	}

	c.Name.State = state
	return r.finish(ctx, "set_state", c.Name.Name, clientID, StatusOK)
}

// CheckAddr is the handle get_check_addr returns: a stable, thread-safe
// way to read a name's val without a full registry call, and a release
// function that must be called once the holder is done observing it.
// Modeled as a pair of closures rather than a raw pointer
// since this Go core has no shared-memory IPC surface to expose across
// process boundaries — network transparency is a non-goal.
type CheckAddr struct {
	getVal  func() uint32
	release func()
}

// Val reads the observed name's current change counter.
func (h *CheckAddr) Val() uint32 {
	return h.getVal()
}

// Release drops the handle's pin on the name record. Safe to call more
// than once.
func (h *CheckAddr) Release() {
	h.release()
}

// GetCheckAddr implements get_check_addr. The returned handle pins the
// name record: maybeFree will not remove it from the table until every
// outstanding handle has been released, even if the subscriber that
// requested it is cancelled in the meantime.
func (r *Registry) GetCheckAddr(ctx context.Context, clientID uint32) (*CheckAddr, Status) {
	r.lock()
	defer r.unlock()

	c, err := r.lookupClient(clientID)
	if err != nil {
		return nil, r.fail(ctx, "get_check_addr", "", clientID, err)
	}

	n := c.Name
	n.CheckAddrRefs++

	var released bool
	h := &CheckAddr{
		getVal: func() uint32 {
			r.lock()
			defer r.unlock()
			return n.Val
		},
		release: func() {
			r.lock()
			defer r.unlock()
			if released {
				return
			}
			released = true
			n.CheckAddrRefs--
			r.maybeFree(n)
		},
	}

	return h, r.finish(ctx, "get_check_addr", n.Name, clientID, StatusOK)
}

// SetOwner implements set_owner: creates the name if absent, sets
// ownership, and enrolls it in the controlled-name list.
func (r *Registry) SetOwner(ctx context.Context, name string, uid, gid uint32) Status {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	n.UID = uid
	n.GID = gid
	r.access.Insert(n)

	return r.finish(ctx, "set_owner", name, 0, StatusOK)
}

// SetAccess implements set_access: creates the name if absent, sets the
// access word, and enrolls it in the controlled-name list.
func (r *Registry) SetAccess(ctx context.Context, name string, access uint16) Status {
	r.lock()
	defer r.unlock()

	n := r.resolveOrCreateName(name)
	n.Access = access
	r.access.Insert(n)

	return r.finish(ctx, "set_access", name, 0, StatusOK)
}

// GetOwner implements get_owner: the name's own record if registered,
// else the deepest controlling prefix's owner, else the default (0, 0).
func (r *Registry) GetOwner(ctx context.Context, name string) (uint32, uint32, Status) {
	r.lock()
	defer r.unlock()

	if n, ok := r.names.Get(name); ok {
		return n.UID, n.GID, r.finish(ctx, "get_owner", name, 0, StatusOK)
	}
	if uid, gid, found := r.access.Owner(name); found {
		return uid, gid, r.finish(ctx, "get_owner", name, 0, StatusOK)
	}

	return 0, 0, r.finish(ctx, "get_owner", name, 0, StatusOK)
}

// GetAccess implements get_access: the name's own access word if
// registered, else the deepest controlling prefix's, else DefaultAccess.
func (r *Registry) GetAccess(ctx context.Context, name string) (uint16, Status) {
	r.lock()
	defer r.unlock()

	if n, ok := r.names.Get(name); ok {
		return n.Access, r.finish(ctx, "get_access", name, 0, StatusOK)
	}
	if access, found := r.access.Access(name); found {
		return access, r.finish(ctx, "get_access", name, 0, StatusOK)
	}

	return DefaultAccess, r.finish(ctx, "get_access", name, 0, StatusOK)
}

// ReleaseName implements release_name: owner-or-root check, removes the
// controlled-list pin, and frees the record if nothing else holds it.
func (r *Registry) ReleaseName(ctx context.Context, name string, uid, gid uint32) Status {
	r.lock()
	defer r.unlock()

	n, ok := r.names.Get(name)
	if !ok {
		return r.fail(ctx, "release_name", name, 0, errInvalidName(name))
	}
	if uid != 0 && uid != n.UID {
		return r.fail(ctx, "release_name", name, 0, errNotAuthorized(name))
	}

	r.access.Remove(name)
	r.maybeFree(n)

	return r.finish(ctx, "release_name", name, 0, StatusOK)
}
