package registry

// NoSlot is the sentinel for a name record with no assigned shared-memory
// slot index.
const NoSlot int32 = -1

// Access mode bits. From least significant: other-read, other-write,
// other-reserved, group-read, group-write, group-reserved, user-read,
// user-write, user-reserved.
const (
	AccessOtherRead uint16 = 1 << iota
	AccessOtherWrite
	AccessOtherReserved
	AccessGroupRead
	AccessGroupWrite
	AccessGroupReserved
	AccessUserRead
	AccessUserWrite
	AccessUserReserved
)

// DefaultAccess grants read to everyone and write to the owner; the exact
// bit pattern isn't significant as long as it grants read to all and
// write to the owner.
const DefaultAccess = AccessUserRead | AccessUserWrite | AccessGroupRead | AccessOtherRead

// Request is the kind of access being checked against a name's access word.
type Request int

const (
	RequestRead Request = iota
	RequestWrite
)

// NameRecord is component C: the per-name change counter, state word,
// subscriber list, ownership, access bits, and refcount. A record stays in
// the registry's name table while Refcount() > 0 or an outstanding
// get_check_addr handle pins it (see CanFree).
type NameRecord struct {
	Name    string
	Val     uint32
	State   uint64
	Slot    int32
	UID     uint32
	GID     uint32
	Access  uint16
	Clients []*ClientRecord // client_list, most-recently-registered first

	// Controlled marks membership in the access controller's controlled-
	// name list; a controlled name is pinned even with zero
	// subscribers, contributing 1 to Refcount.
	Controlled bool

	// CheckAddrRefs counts outstanding get_check_addr handles. It pins the
	// record against freeing without affecting Refcount, which is fixed to
	// client_list length plus controlled-list membership.
	CheckAddrRefs int
}

// newNameRecord creates a name record with its defaults: val initialized
// to 1, state to 0, no slot, default access.
func newNameRecord(name string) *NameRecord {
	return &NameRecord{
		Name:   name,
		Val:    1,
		Slot:   NoSlot,
		Access: DefaultAccess,
	}
}

// Refcount is derived, never stored: client_list length plus one if the
// name is in the controlled list. Deriving it holds the invariant by
// construction rather than by careful bookkeeping at every mutation site.
func (n *NameRecord) Refcount() int {
	count := len(n.Clients)
	if n.Controlled {
		count++
	}
	return count
}

// CanFree reports whether nothing pins the record: no subscribers, no
// controlled-list membership, and no outstanding check-addr handles.
func (n *NameRecord) CanFree() bool {
	return n.Refcount() == 0 && n.CheckAddrRefs == 0
}

// addClient prepends c to the subscriber list, so the most recently
// registered subscriber is always first.
func (n *NameRecord) addClient(c *ClientRecord) {
	n.Clients = append([]*ClientRecord{c}, n.Clients...)
}

// removeClient unlinks the client with the given id, if present, and
// reports whether it was found.
func (n *NameRecord) removeClient(id uint32) bool {
	for i, c := range n.Clients {
		if c.ID == id {
			n.Clients = append(n.Clients[:i], n.Clients[i+1:]...)
			return true
		}
	}
	return false
}
