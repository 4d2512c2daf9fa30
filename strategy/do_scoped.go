package strategy

import (
	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/samber/do/v2"
	"go.uber.org/multierr"
)

// DoScoped samber/do：每次调用在 holder scope 下新建子 scope 解析
// singleton / transient 注册在根 scope，scoped 注册在每个子 scope
type DoScoped struct {
	table Table
	log   logger.CtxLogger
}

// NewDoScoped 创建 samber/do 策略
func NewDoScoped(table Table, log logger.CtxLogger) *DoScoped {
	return &DoScoped{table: table, log: orNop(log)}
}

func (s *DoScoped) Name() string { return LabelDoScoped }

func (s *DoScoped) Setup() (bench.Action, error) {
	if err := validateFor(s.Name(), s.table); err != nil {
		return nil, err
	}

	root := do.New()
	var scoped []Binding
	for _, b := range s.table {
		switch b.Lifetime {
		case Singleton:
			do.ProvideNamed(root, b.Capability, doProvider(b))
		case Transient:
			do.ProvideNamedTransient(root, b.Capability, doProvider(b))
		case Scoped:
			scoped = append(scoped, b)
		}
	}

	registerScoped := func(i do.Injector) {
		for _, b := range scoped {
			do.ProvideNamed(i, b.Capability, doProvider(b))
		}
	}

	// Shutdown 会把子 scope 从 holder 中摘除，子 scope 不会累积
	holder := root.Scope("calls")

	action := func(i int) (err error) {
		call := holder.Scope("call", registerScoped)
		defer func() {
			if report := holder.Shutdown(); !report.Succeed {
				err = multierr.Append(err, ErrScopeRelease.Wrap(report))
			}
		}()

		return callGetter(func(name string) (any, error) {
			return do.InvokeNamed[any](call, name)
		}, i)
	}

	if err := probe(s.Name(), action); err != nil {
		return nil, err
	}
	logReady(s.log, s.Name(), s.table)
	return action, nil
}

func doProvider(b Binding) do.Provider[any] {
	return func(i do.Injector) (any, error) {
		return b.Factory(doDeps{i})
	}
}

// doDeps 在当前 scope（含父级）中按名解析
type doDeps struct {
	injector do.Injector
}

func (d doDeps) Lookup(capability string) (any, error) {
	return do.InvokeNamed[any](d.injector, capability)
}
