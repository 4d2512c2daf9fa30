package strategy

import (
	"context"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/xraph/vessel"
	"go.uber.org/multierr"
)

type scopeCtxKey struct{}

// WithScope 把 scope 挂到 ctx 上
func WithScope(ctx context.Context, scope vessel.Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey{}, scope)
}

// ScopeFromContext 取 ctx 上的 scope，没有时返回 ErrNoAmbientScope
func ScopeFromContext(ctx context.Context) (vessel.Scope, error) {
	if scope, ok := ctx.Value(scopeCtxKey{}).(vessel.Scope); ok && scope != nil {
		return scope, nil
	}
	return nil, ErrNoAmbientScope
}

// VesselContextScoped vessel：scope 随 context 传递，解析时从 ctx 取 scope
type VesselContextScoped struct {
	table Table
	log   logger.CtxLogger
	ctx   context.Context
}

// NewVesselContextScoped 创建基于 context 的 vessel 策略
func NewVesselContextScoped(table Table, log logger.CtxLogger) *VesselContextScoped {
	return &VesselContextScoped{table: table, log: orNop(log), ctx: context.Background()}
}

func (s *VesselContextScoped) Name() string { return LabelVesselContextScoped }

func (s *VesselContextScoped) Setup() (bench.Action, error) {
	c, err := buildVessel(s.Name(), s.table)
	if err != nil {
		return nil, err
	}

	action := func(i int) (err error) {
		scope := c.BeginScope()
		defer func() {
			err = multierr.Append(err, endScope(scope))
		}()
		return resolveFromContext(WithScope(s.ctx, scope), i)
	}

	if err := probe(s.Name(), action); err != nil {
		return nil, err
	}
	logReady(s.log, s.Name(), s.table)
	return action, nil
}

// resolveFromContext 只认 ctx 上的 scope
func resolveFromContext(ctx context.Context, i int) error {
	scope, err := ScopeFromContext(ctx)
	if err != nil {
		return err
	}
	return callGetter(scope.Resolve, i)
}
