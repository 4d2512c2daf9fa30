//go:build linux

package strategy

import "golang.org/x/sys/unix"

// currentThreadID 调用方需已 LockOSThread
func currentThreadID() int {
	return unix.Gettid()
}
