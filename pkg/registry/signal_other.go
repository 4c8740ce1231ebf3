//go:build !unix

package registry

// sendSignal is a no-op on platforms without Unix signal delivery; signal
// registration remains accepted (task-to-pid resolution, and by extension
// signal delivery itself, is a platform concern). No signal is sent, and
// it returns nil, so signalTransport still reports the send as made.
func sendSignal(pid int32, sig int) error {
	return nil
}
