package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessController_InsertKeepsReverseLexicographicOrder(t *testing.T) {
	ac := NewAccessController()

	names := []string{"com.x", "com.x.child", "com.a", "com"}
	for _, name := range names {
		n := newNameRecord(name)
		ac.Insert(n)
	}

	require.Len(t, ac.controlled, 4)
	for i := 1; i < len(ac.controlled); i++ {
		require.Greater(t, ac.controlled[i-1].Name, ac.controlled[i].Name)
	}
}

func TestAccessController_InsertIsIdempotent(t *testing.T) {
	ac := NewAccessController()
	n := newNameRecord("com.x")

	ac.Insert(n)
	ac.Insert(n)

	require.Len(t, ac.controlled, 1)
}

// TestAccessController_ControllingPrefixBlocksUnrelatedCallerNotOwner
// checks that an other-denying controlling prefix blocks an unrelated
// caller but not the owner.
func TestAccessController_ControllingPrefixBlocksUnrelatedCallerNotOwner(t *testing.T) {
	ac := NewAccessController()

	owner := newNameRecord("com.x")
	owner.UID, owner.GID = 501, 20
	owner.Access = AccessUserRead | AccessUserWrite | AccessGroupRead
	ac.Insert(owner)

	child := newNameRecord("com.x.child")

	require.False(t, ac.Check(child, 502, 99, RequestRead))
	require.True(t, ac.Check(child, 501, 20, RequestRead))
}

func TestAccessController_SuperuserAlwaysAllowed(t *testing.T) {
	ac := NewAccessController()

	owner := newNameRecord("com.x")
	owner.Access = 0 // denies everyone
	ac.Insert(owner)

	child := newNameRecord("com.x.child")
	require.True(t, ac.Check(child, 0, 0, RequestWrite))
}

func TestAccessController_DeepestPrefixDecidesNotCumulativeAnd(t *testing.T) {
	ac := NewAccessController()

	// "com" denies other entirely; "com.x" grants other-read. Only the
	// deepest match ("com.x") is consulted.
	top := newNameRecord("com")
	top.Access = 0
	ac.Insert(top)

	deeper := newNameRecord("com.x")
	deeper.Access = AccessOtherRead
	ac.Insert(deeper)

	child := newNameRecord("com.x.child")
	require.True(t, ac.Check(child, 777, 777, RequestRead))
}

func TestAccessController_RemoveClearsPinAndEntry(t *testing.T) {
	ac := NewAccessController()
	n := newNameRecord("com.x")
	ac.Insert(n)
	require.True(t, n.Controlled)

	ac.Remove("com.x")
	require.False(t, n.Controlled)
	require.Empty(t, ac.controlled)
}

func TestAccessController_OwnerAndAccessFallThroughToDeepestPrefix(t *testing.T) {
	ac := NewAccessController()
	n := newNameRecord("com.x")
	n.UID, n.GID = 501, 20
	n.Access = AccessUserRead
	ac.Insert(n)

	uid, gid, found := ac.Owner("com.x.child")
	require.True(t, found)
	require.Equal(t, uint32(501), uid)
	require.Equal(t, uint32(20), gid)

	access, found := ac.Access("com.x.child")
	require.True(t, found)
	require.Equal(t, AccessUserRead, access)

	_, _, found = ac.Owner("org.other")
	require.False(t, found)
}
