package di

import (
	"context"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/telemetry"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// StartCoreComponents 触发核心组件懒加载
// 组件的 Start 逻辑在各自的 Provider 中实现，关闭由 injector.Shutdown 负责
func StartCoreComponents(ctx context.Context, injector do.Injector, log logger.CtxLogger) error {
	tm, err := do.Invoke[*telemetry.Manager](injector)
	if err != nil {
		return err
	}
	log.DebugCtx(ctx, "✅ Telemetry 组件已就绪",
		zap.Bool("enabled", tm.IsEnabled()),
		zap.Bool("started", tm.IsStarted()))

	if _, err := do.Invoke[*bench.Runner](injector); err != nil {
		return err
	}
	log.DebugCtx(ctx, "✅ Runner 已就绪")

	return nil
}
