package errcode

import (
	"fmt"
	"sync"
)

// Registry 错误码注册表（防止错误码冲突）
type Registry struct {
	mu     sync.RWMutex
	codes  map[int]string // code -> module:msgKey
	locked bool
}

var globalRegistry = NewRegistry()

// NewRegistry 创建独立注册表
func NewRegistry() *Registry {
	return &Registry{codes: make(map[int]string)}
}

// Register 注册到全局注册表，冲突时 panic
// 用法：
//
//	var ErrSetupFailed = errcode.Register(errcode.New(20, 2, "strategy", "error.strategy.setup_failed", "strategy setup failed", errcode.ExitConfig))
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Register 注册错误码
// 同一 code 重复注册相同 module:msgKey 视为幂等
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked {
		panic(fmt.Sprintf("registry is locked, cannot register error code: %d", err.Code()))
	}

	key := err.Module() + ":" + err.MsgKey()
	if existing, ok := r.codes[err.Code()]; ok {
		if existing != key {
			panic(fmt.Sprintf(
				"error code conflict: code %d is already registered as %s, cannot register as %s",
				err.Code(), existing, key,
			))
		}
		return err
	}

	r.codes[err.Code()] = key
	return err
}

// Lock 锁定注册表（启动完成后调用）
func (r *Registry) Lock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
}

// IsLocked 是否已锁定
func (r *Registry) IsLocked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked
}

// GetAll 返回所有已注册错误码的副本
func (r *Registry) GetAll() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make(map[int]string, len(r.codes))
	for k, v := range r.codes {
		codes[k] = v
	}
	return codes
}

// LockGlobalRegistry 锁定全局注册表
func LockGlobalRegistry() {
	globalRegistry.Lock()
}

// GetAllRegisteredCodes 全局注册表内容
func GetAllRegisteredCodes() map[int]string {
	return globalRegistry.GetAll()
}
