package registry

import (
	"encoding/binary"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlainTransport_AlwaysSucceeds(t *testing.T) {
	var tr plainTransport
	require.True(t, tr.Send(&ClientRecord{}))
}

func TestSignalTransport_RejectsNonPositivePID(t *testing.T) {
	var tr signalTransport
	require.False(t, tr.Send(&ClientRecord{Signal: SignalParams{PID: 0}}))
}

// TestDescriptorTransport_ClosedReadEndMarksDescriptorDead checks that
// writing to a descriptor whose read end is closed fails and marks the
// descriptor dead.
func TestDescriptorTransport_ClosedReadEndMarksDescriptorDead(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	require.NoError(t, r.Close()) // close the read end externally

	c := &ClientRecord{Descriptor: DescriptorParams{FD: w, Token: 42}}
	var tr descriptorTransport

	ok := tr.Send(c)
	require.False(t, ok)
	require.Nil(t, c.Descriptor.FD)

	// A second post is a no-op for this subscriber.
	ok = tr.Send(c)
	require.False(t, ok)
}

func TestDescriptorTransport_WritesBigEndianToken(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	c := &ClientRecord{Descriptor: DescriptorParams{FD: w, Token: 0x01020304}}
	var tr descriptorTransport

	require.True(t, tr.Send(c))

	var buf [4]byte
	_, err = r.Read(buf[:])
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), binary.BigEndian.Uint32(buf[:]))
}

func TestPortTransport_WritesBigEndianTokenWithinTimeout(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	c := &ClientRecord{Port: PortParams{Conn: clientConn, Token: 99}}
	tr := portTransport{timeout: 50 * time.Millisecond}

	done := make(chan bool, 1)
	go func() { done <- tr.Send(c) }()

	var buf [4]byte
	_, err := serverConn.Read(buf[:])
	require.NoError(t, err)
	require.Equal(t, uint32(99), binary.BigEndian.Uint32(buf[:]))
	require.True(t, <-done)
}

func TestPortTransport_NilConnIsNoOp(t *testing.T) {
	tr := portTransport{timeout: 10 * time.Millisecond}
	require.False(t, tr.Send(&ClientRecord{}))
}

func TestTransports_ForTypeSelectsCorrectTransport(t *testing.T) {
	tr := newTransports(50 * time.Millisecond)

	require.IsType(t, plainTransport{}, tr.forType(NotifyPlain))
	require.IsType(t, plainTransport{}, tr.forType(NotifyMemorySlot))
	require.IsType(t, signalTransport{}, tr.forType(NotifySignal))
	require.IsType(t, descriptorTransport{}, tr.forType(NotifyDescriptor))
	require.IsType(t, portTransport{}, tr.forType(NotifyPort))
}
