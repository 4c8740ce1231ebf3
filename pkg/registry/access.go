package registry

import (
	"cmp"
	"slices"
	"strings"
)

// shift positions for the three 3-bit classes within the 9-bit access word.
const (
	shiftOther = 0
	shiftGroup = 3
	shiftUser  = 6
)

// classAllows reports whether a caller (callerUID, callerGID) is permitted
// req against a record owned by (ownerUID, ownerGID) with the given access
// word, per the user/group/other rule: grant if any of
// owner-match-with-bit, group-match-with-bit, or the other bit.
func classAllows(access uint16, ownerUID, ownerGID, callerUID, callerGID uint32, req Request) bool {
	bit := func(shift uint) bool {
		if req == RequestWrite {
			return access&(1<<(shift+1)) != 0
		}
		return access&(1<<shift) != 0
	}

	if ownerUID == callerUID && bit(shiftUser) {
		return true
	}
	if ownerGID == callerGID && bit(shiftGroup) {
		return true
	}
	return bit(shiftOther)
}

// AccessController is component E: the hierarchical prefix-based
// permission check over the controlled-name list, kept in reverse
// lexicographic order so a single forward scan visits the deepest matching
// prefix first.
type AccessController struct {
	controlled []*NameRecord
}

// NewAccessController returns an access controller with an empty
// controlled-name list.
func NewAccessController() *AccessController {
	return &AccessController{}
}

// controlledCmp orders two controlled entries so that a descending sort
// (larger name first) yields reverse lexicographic order, which is the
// deepest-prefix-first property the scan in Check/Owner/Access relies on.
func controlledCmp(a, b *NameRecord) int {
	return cmp.Compare(b.Name, a.Name)
}

// Insert adds n to the controlled-name list, if not already present, and
// marks it Controlled so its refcount reflects the pin.
func (a *AccessController) Insert(n *NameRecord) {
	idx, found := slices.BinarySearchFunc(a.controlled, n, controlledCmp)
	if found {
		return
	}
	a.controlled = slices.Insert(a.controlled, idx, n)
	n.Controlled = true
}

// Remove removes the entry for name, if present, clearing its Controlled
// pin. It does not otherwise touch the record's refcount; the caller
// checks Refcount() afterward to decide whether to free it.
func (a *AccessController) Remove(name string) {
	idx := slices.IndexFunc(a.controlled, func(n *NameRecord) bool { return n.Name == name })
	if idx < 0 {
		return
	}
	a.controlled[idx].Controlled = false
	a.controlled = slices.Delete(a.controlled, idx, idx+1)
}

// deepestPrefix returns the first (and by construction, deepest) entry in
// the controlled-name list that properly prefixes name, or nil if none
// does. Only this one entry is ever consulted, never a cumulative AND
// across every matching prefix.
func (a *AccessController) deepestPrefix(name string) *NameRecord {
	for _, p := range a.controlled {
		if p.Name == name {
			continue
		}
		if len(p.Name) >= len(name) || !strings.HasPrefix(name, p.Name) {
			continue
		}
		return p
	}
	return nil
}

// Check implements the effective-permission algorithm for name
// record n. uid == 0 always allows (superuser). Otherwise the deepest
// controlling prefix, if any, decides outright on denial; only when it's
// absent or grants does n's own access word get consulted.
func (a *AccessController) Check(n *NameRecord, uid, gid uint32, req Request) bool {
	if uid == 0 {
		return true
	}
	if p := a.deepestPrefix(n.Name); p != nil {
		if !classAllows(p.Access, p.UID, p.GID, uid, gid, req) {
			return false
		}
	}
	return classAllows(n.Access, n.UID, n.GID, uid, gid, req)
}

// Owner returns the deepest controlling prefix's ownership for a name with
// no direct record of its own.
func (a *AccessController) Owner(name string) (uid, gid uint32, found bool) {
	if p := a.deepestPrefix(name); p != nil {
		return p.UID, p.GID, true
	}
	return 0, 0, false
}

// Access returns the deepest controlling prefix's access word for a name
// with no direct record of its own.
func (a *AccessController) Access(name string) (access uint16, found bool) {
	if p := a.deepestPrefix(name); p != nil {
		return p.Access, true
	}
	return 0, false
}
