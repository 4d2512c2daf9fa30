// Package strategy 各 DI 容器的解析策略
//
// 每个策略 Setup 一次，返回的 Action 在每次迭代中解析 value_getter 并调用 GetValue(i)。
// 按调用开启的 scope 一律在 defer 中释放。
package strategy

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/service"
	"go.uber.org/zap"
)

// 输出标签，顺序与 Defaults 一致
const (
	LabelRaw                 = "Raw"
	LabelDoScoped            = "samber/do (Scope)"
	LabelVesselScoped        = "vessel (BeginScope)"
	LabelDigThreadScoped     = "dig (ThreadScoped)"
	LabelVesselContextScoped = "vessel (ContextScoped)"
)

// Strategy 解析策略
type Strategy interface {
	Name() string
	// Setup 只调用一次；失败属于配置错误
	Setup() (bench.Action, error)
}

// Defaults 固定顺序的五个策略
func Defaults(mgr *logger.Manager, log logger.CtxLogger) []Strategy {
	table := DefaultTable(mgr)
	return []Strategy{
		NewRaw(mgr, log),
		NewDoScoped(table, log),
		NewVesselScoped(table, log),
		NewDigThreadScoped(table, log),
		NewVesselContextScoped(table, log),
	}
}

// resolveFunc 容器或 scope 的按名解析
type resolveFunc func(name string) (any, error)

// callGetter 解析 value_getter 并调用一次
func callGetter(resolve resolveFunc, i int) error {
	v, err := resolve(CapabilityValueGetter)
	if err != nil {
		return ErrResolveFailed.Wrap(err).WithData("capability", CapabilityValueGetter)
	}
	getter, ok := v.(service.ValueGetter)
	if !ok {
		return ErrUnexpectedType.WithMsgf("%q resolved to %T", CapabilityValueGetter, v).
			WithData("capability", CapabilityValueGetter)
	}
	_ = getter.GetValue(i)
	return nil
}

// probe 在 Setup 中做一次解析，尽早暴露依赖图问题
func probe(name string, action bench.Action) error {
	if err := action(0); err != nil {
		return ErrSetupFailed.Wrapf(err, "%s: probe resolution failed", name)
	}
	return nil
}

func logReady(log logger.CtxLogger, name string, table Table) {
	fields := []zap.Field{zap.String("strategy", name), zap.Int("bindings", len(table))}
	for _, b := range table {
		fields = append(fields, zap.String(b.Capability, fmt.Sprintf("%s/%s", b.Concrete, b.Lifetime)))
	}
	log.DebugCtx(context.Background(), "strategy ready", fields...)
}

func orNop(log logger.CtxLogger) logger.CtxLogger {
	if log == nil {
		return logger.NewNopManager().GetLogger("strategy")
	}
	return log
}
