// Package errcode 提供分层错误码
// 错误码格式：MMBBBB（MM = 模块码 2 位，BBBB = 业务码 4 位）
package errcode

import (
	"errors"
	"fmt"
)

// 进程退出码
const (
	ExitOK      = 0
	ExitFailure = 1 // 运行期失败（迭代失败、输出失败）
	ExitConfig  = 2 // 配置错误（注册表无法满足、配置加载失败）
)

// LayeredError 分层错误码
// 支持：错误链、动态消息、上下文数据、退出码映射、消息键
type LayeredError struct {
	module   string                 // 模块名（bench, strategy, application）
	code     int                    // 完整错误码（MMBBBB，如 200002）
	msgKey   string                 // 消息键，如 "error.strategy.setup_failed"
	msg      string                 // 默认消息
	exitCode int                    // 进程退出码
	data     map[string]interface{} // 上下文数据
	cause    error                  // 原始错误
}

// New 创建分层错误码
// moduleCode: 模块码（10-99）
// businessCode: 业务码（0001-9999）
// exitCode: 可选，默认 ExitFailure
func New(moduleCode, businessCode int, module, msgKey, msg string, exitCode ...int) *LayeredError {
	code := moduleCode*10000 + businessCode
	exit := ExitFailure
	if len(exitCode) > 0 {
		exit = exitCode[0]
	}
	return &LayeredError{
		module:   module,
		code:     code,
		msgKey:   msgKey,
		msg:      msg,
		exitCode: exit,
		data:     make(map[string]interface{}),
	}
}

func (e *LayeredError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Code 错误码
func (e *LayeredError) Code() int {
	return e.code
}

// Module 模块名
func (e *LayeredError) Module() string {
	return e.module
}

// MsgKey 消息键
func (e *LayeredError) MsgKey() string {
	return e.msgKey
}

// Message 错误消息（不含 cause）
func (e *LayeredError) Message() string {
	return e.msg
}

// ExitCode 进程退出码
func (e *LayeredError) ExitCode() int {
	return e.exitCode
}

// Data 上下文数据
func (e *LayeredError) Data() map[string]interface{} {
	return e.data
}

// Unwrap 支持 errors.Is / errors.As 沿错误链查找
func (e *LayeredError) Unwrap() error {
	return e.cause
}

// WithMsg 替换消息（返回新实例）
func (e *LayeredError) WithMsg(msg string) *LayeredError {
	clone := *e
	clone.msg = msg
	return &clone
}

// WithMsgf 格式化替换消息（返回新实例）
func (e *LayeredError) WithMsgf(format string, args ...interface{}) *LayeredError {
	clone := *e
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// WithData 添加单个上下文数据（返回新实例）
func (e *LayeredError) WithData(key string, value interface{}) *LayeredError {
	clone := *e
	clone.data = e.cloneData()
	clone.data[key] = value
	return &clone
}

// Wrap 包装原始错误（返回新实例）
func (e *LayeredError) Wrap(cause error) *LayeredError {
	if cause == nil {
		return e
	}
	clone := *e
	clone.cause = cause
	return &clone
}

// Wrapf 包装原始错误并格式化消息（返回新实例）
func (e *LayeredError) Wrapf(cause error, format string, args ...interface{}) *LayeredError {
	if cause == nil {
		return e.WithMsgf(format, args...)
	}
	clone := *e
	clone.cause = cause
	clone.msg = fmt.Sprintf(format, args...)
	return &clone
}

// Is 按错误码判等
func (e *LayeredError) Is(target error) bool {
	t, ok := target.(*LayeredError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *LayeredError) cloneData() map[string]interface{} {
	data := make(map[string]interface{}, len(e.data)+1)
	for k, v := range e.data {
		data[k] = v
	}
	return data
}

// String 调试用
func (e *LayeredError) String() string {
	if e.cause != nil {
		return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s, cause:%v}",
			e.code, e.module, e.msg, e.cause)
	}
	return fmt.Sprintf("LayeredError{code:%d, module:%s, msg:%s}",
		e.code, e.module, e.msg)
}

// ExitCode 从错误链中取最外层 LayeredError 的退出码
// nil -> ExitOK，非 LayeredError -> ExitFailure
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var le *LayeredError
	if errors.As(err, &le) {
		return le.exitCode
	}
	return ExitFailure
}
