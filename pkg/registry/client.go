package registry

import (
	"net"
	"os"
	"slices"
	"sort"
)

// NotifyType selects a client record's delivery transport.
type NotifyType int

const (
	NotifyPlain NotifyType = iota
	NotifyMemorySlot
	NotifySignal
	NotifyDescriptor
	NotifyPort
)

func (t NotifyType) String() string {
	switch t {
	case NotifyPlain:
		return "plain"
	case NotifyMemorySlot:
		return "memory-slot"
	case NotifySignal:
		return "signal"
	case NotifyDescriptor:
		return "descriptor"
	case NotifyPort:
		return "port"
	default:
		return "unknown"
	}
}

// SignalParams carries the target of a signal-transport registration.
type SignalParams struct {
	PID    int32
	Signal int
}

// DescriptorParams carries the target of a descriptor-transport
// registration. FD is nilled out once a write fails, marking the
// descriptor invalid without needing a separate sentinel.
type DescriptorParams struct {
	FD    *os.File
	Token uint32
}

// PortParams carries the target of a port-transport registration. Conn is
// a Unix-domain socket in production and an in-memory net.Pipe in tests.
type PortParams struct {
	Conn  net.Conn
	Token uint32
}

// ClientRecord is component D's per-subscriber record: a stable client id,
// a weak back-reference to its name, the notify-type-specific transport
// parameters, the session handle used for bulk cancel, and the last val
// observed via check.
type ClientRecord struct {
	ID      uint32
	Name    *NameRecord // weak back-reference; owning list is Name.Clients
	Type    NotifyType
	Session string
	LastVal uint32

	Signal     SignalParams
	Descriptor DescriptorParams
	Port       PortParams
}

// IDAllocator implements client-id recycling: next_id is a
// high-water mark, free_list is kept in strictly decreasing order, and a
// release sweeps contiguous top ids back out of the free list so the
// highest ids are reused first.
type IDAllocator struct {
	nextID   uint32
	freeList []uint32 // strictly decreasing
}

// NewIDAllocator returns an allocator with no ids issued yet.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Allocate returns the next client id: the head of the free list if one
// exists, otherwise a fresh high-water mark.
func (a *IDAllocator) Allocate() uint32 {
	if len(a.freeList) > 0 {
		id := a.freeList[0]
		a.freeList = a.freeList[1:]
		return id
	}
	a.nextID++
	return a.nextID
}

// Release returns id to the pool. If id is the current high-water mark it
// is simply retired (next_id decremented); otherwise it's inserted into
// the free list at the position that preserves strictly-decreasing order.
// Either way, a release then sweeps: while the free list's head equals the
// (possibly just-decremented) next_id, it's popped and next_id decremented
// again, so the highest ids stay compact.
func (a *IDAllocator) Release(id uint32) {
	if id == a.nextID {
		a.nextID--
	} else {
		idx := sort.Search(len(a.freeList), func(i int) bool { return a.freeList[i] <= id })
		a.freeList = slices.Insert(a.freeList, idx, id)
	}

	for len(a.freeList) > 0 && a.freeList[0] == a.nextID {
		a.freeList = a.freeList[1:]
		a.nextID--
	}
}

// NextID reports the current high-water mark, exposed for introspection
// and logging (internal/logger's KeyNextID field).
func (a *IDAllocator) NextID() uint32 {
	return a.nextID
}

// FreeCount reports the free list's length, exposed for introspection.
func (a *IDAllocator) FreeCount() int {
	return len(a.freeList)
}
