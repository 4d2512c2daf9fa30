package strategy

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/service"
)

// 能力名，即各容器中的注册名
const (
	CapabilityLogger      = "logger"
	CapabilityValueGetter = "value_getter"
)

// Lifetime 实例生命周期
type Lifetime int

const (
	Singleton Lifetime = iota + 1
	Scoped
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// Dependencies 工厂按能力名取依赖，由各容器适配器实现
type Dependencies interface {
	Lookup(capability string) (any, error)
}

// Factory 构造一个能力的实例
type Factory func(deps Dependencies) (any, error)

// Binding 注册表中的一行：能力 -> 具体类型 + 生命周期
type Binding struct {
	Capability string
	Concrete   string // 仅用于日志
	Lifetime   Lifetime
	Requires   []string
	Factory    Factory
}

// Table 静态注册表，代码中显式声明，不做反射扫描
type Table []Binding

// Lookup 按能力名查找
func (t Table) Lookup(capability string) (Binding, bool) {
	for _, b := range t {
		if b.Capability == capability {
			return b, true
		}
	}
	return Binding{}, false
}

// Validate 检查空能力名、空工厂、非法生命周期、重复注册、缺失依赖
func (t Table) Validate() error {
	seen := make(map[string]struct{}, len(t))
	for i, b := range t {
		if b.Capability == "" {
			return ErrInvalidBinding.WithMsgf("binding #%d has empty capability", i)
		}
		if b.Factory == nil {
			return ErrInvalidBinding.WithMsgf("binding %q has nil factory", b.Capability).
				WithData("capability", b.Capability)
		}
		if b.Lifetime < Singleton || b.Lifetime > Transient {
			return ErrInvalidBinding.WithMsgf("binding %q has invalid %s", b.Capability, b.Lifetime).
				WithData("capability", b.Capability)
		}
		if _, dup := seen[b.Capability]; dup {
			return ErrInvalidBinding.WithMsgf("capability %q registered twice", b.Capability).
				WithData("capability", b.Capability)
		}
		seen[b.Capability] = struct{}{}
	}

	for _, b := range t {
		for _, req := range b.Requires {
			if _, ok := seen[req]; !ok {
				return ErrInvalidBinding.WithMsgf("binding %q requires %q which is not registered", b.Capability, req).
					WithData("capability", b.Capability).
					WithData("requires", req)
			}
		}
	}
	return nil
}

// validateFor 通用校验 + 必须能解析 value_getter
func validateFor(name string, t Table) error {
	if err := t.Validate(); err != nil {
		return ErrSetupFailed.Wrapf(err, "%s: invalid registration table", name)
	}
	if _, ok := t.Lookup(CapabilityValueGetter); !ok {
		return ErrSetupFailed.Wrapf(
			ErrInvalidBinding.WithMsgf("no binding for %q", CapabilityValueGetter),
			"%s: invalid registration table", name)
	}
	return nil
}

// Values map 形式的 Dependencies（直接构造和 dig 适配器使用）
type Values map[string]any

func (v Values) Lookup(capability string) (any, error) {
	inst, ok := v[capability]
	if !ok {
		return nil, ErrResolveFailed.WithMsgf("dependency %q not available", capability).
			WithData("capability", capability)
	}
	return inst, nil
}

// Get 取依赖并断言类型
func Get[T any](deps Dependencies, capability string) (T, error) {
	var zero T
	v, err := deps.Lookup(capability)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, ErrUnexpectedType.WithMsgf("%q resolved to %T", capability, v).
			WithData("capability", capability)
	}
	return typed, nil
}

// DefaultTable 基准使用的服务图：
//
//	logger        *logger.CtxZapLogger    singleton
//	value_getter  *service.ValueProvider  scoped，依赖 logger
func DefaultTable(mgr *logger.Manager) Table {
	return Table{
		{
			Capability: CapabilityLogger,
			Concrete:   "*logger.CtxZapLogger",
			Lifetime:   Singleton,
			Factory: func(Dependencies) (any, error) {
				return mgr.GetLogger(service.ModuleName), nil
			},
		},
		{
			Capability: CapabilityValueGetter,
			Concrete:   "*service.ValueProvider",
			Lifetime:   Scoped,
			Requires:   []string{CapabilityLogger},
			Factory: func(deps Dependencies) (any, error) {
				log, err := Get[logger.CtxLogger](deps, CapabilityLogger)
				if err != nil {
					return nil, err
				}
				return service.NewValueProvider(log), nil
			},
		},
	}
}
