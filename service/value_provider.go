// Package service 基准中被解析的服务
package service

import "github.com/KOMKZ/go-yogan-dibench/logger"

// ModuleName ValueProvider 绑定的日志模块名
const ModuleName = "value_provider"

// ValueGetter 被各容器解析的能力接口
type ValueGetter interface {
	GetValue(value int) int
}

// ValueProvider ValueGetter 的唯一实现
// 构造注入 logger，仅为让依赖图有一条边，计算中不使用
type ValueProvider struct {
	log logger.CtxLogger
}

var _ ValueGetter = (*ValueProvider)(nil)

// NewValueProvider 创建 ValueProvider
func NewValueProvider(log logger.CtxLogger) *ValueProvider {
	return &ValueProvider{log: log}
}

// GetValue 原样返回输入
func (p *ValueProvider) GetValue(value int) int {
	return value
}

// Logger 注入的 logger
func (p *ValueProvider) Logger() logger.CtxLogger {
	return p.log
}
