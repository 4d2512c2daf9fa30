//go:build !linux

package strategy

// currentThreadID 非 linux 平台没有可用的线程 id，所有线程共用一个 scope
func currentThreadID() int {
	return 0
}
