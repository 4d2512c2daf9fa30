package di

import (
	"github.com/samber/do/v2"
)

// RegisterCoreProviders 按依赖层级注册核心组件，全部懒加载
func RegisterCoreProviders(injector *do.RootScope, opts ConfigOptions) {
	// ═══════════════════════════════════════════════════════════
	// Layer 0: Config（无依赖）
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideConfigLoader(opts))

	// ═══════════════════════════════════════════════════════════
	// Layer 1: Logger（依赖 Config）
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideLoggerManager)
	do.Provide(injector, ProvideCtxLogger(CoreLoggerName))

	// ═══════════════════════════════════════════════════════════
	// Layer 2: Telemetry（依赖 Config, Logger）
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideTelemetryManager)

	// ═══════════════════════════════════════════════════════════
	// Layer 3: Runner 与策略
	// ═══════════════════════════════════════════════════════════
	do.Provide(injector, ProvideRunner)
	do.Provide(injector, ProvideStrategies)
}
