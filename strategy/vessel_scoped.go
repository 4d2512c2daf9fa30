package strategy

import (
	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/xraph/go-utils/di"
	"github.com/xraph/vessel"
	"go.uber.org/multierr"
)

// VesselScoped vessel：每次调用 BeginScope -> Resolve -> End
type VesselScoped struct {
	table Table
	log   logger.CtxLogger
}

// NewVesselScoped 创建 vessel 策略
func NewVesselScoped(table Table, log logger.CtxLogger) *VesselScoped {
	return &VesselScoped{table: table, log: orNop(log)}
}

func (s *VesselScoped) Name() string { return LabelVesselScoped }

func (s *VesselScoped) Setup() (bench.Action, error) {
	c, err := buildVessel(s.Name(), s.table)
	if err != nil {
		return nil, err
	}

	action := func(i int) (err error) {
		scope := c.BeginScope()
		defer func() {
			err = multierr.Append(err, endScope(scope))
		}()
		return callGetter(scope.Resolve, i)
	}

	if err := probe(s.Name(), action); err != nil {
		return nil, err
	}
	logReady(s.log, s.Name(), s.table)
	return action, nil
}

// buildVessel 校验注册表并按生命周期注册到新容器
func buildVessel(name string, table Table) (vessel.Vessel, error) {
	if err := validateFor(name, table); err != nil {
		return nil, err
	}

	c := vessel.New()
	for _, b := range table {
		if err := c.Register(b.Capability, vesselFactory(b), vesselLifetime(b.Lifetime)); err != nil {
			return nil, ErrSetupFailed.Wrapf(err, "%s: register %q", name, b.Capability).
				WithData("capability", b.Capability)
		}
	}
	return c, nil
}

func vesselLifetime(l Lifetime) di.RegisterOption {
	switch l {
	case Scoped:
		return di.Scoped()
	case Transient:
		return di.Transient()
	default:
		return di.Singleton()
	}
}

func vesselFactory(b Binding) vessel.Factory {
	return func(c vessel.Vessel) (any, error) {
		return b.Factory(vesselDeps{c})
	}
}

// vesselDeps 工厂拿到的是容器本身，scoped 工厂也从容器解析依赖
type vesselDeps struct {
	c vessel.Vessel
}

func (d vesselDeps) Lookup(capability string) (any, error) {
	return d.c.Resolve(capability)
}

func endScope(scope vessel.Scope) error {
	if err := scope.End(); err != nil {
		return ErrScopeRelease.Wrap(err)
	}
	return nil
}
