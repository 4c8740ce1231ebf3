//go:build unix

package registry

import "golang.org/x/sys/unix"

// sendSignal delivers sig to pid. Errors are the caller's to ignore;
// signal failures are never reported back to the client.
func sendSignal(pid int32, sig int) error {
	return unix.Kill(int(pid), unix.Signal(sig))
}
