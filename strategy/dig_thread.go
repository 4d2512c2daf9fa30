package strategy

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/service"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// DigThreadScoped dig：每个 OS 线程一个子 scope
// 调用期间 LockOSThread，按线程 id 取（或懒创建）scope；
// singleton 在根容器，scoped 在线程 scope 内缓存。dig 没有 transient
type DigThreadScoped struct {
	table Table
	log   logger.CtxLogger

	root   *dig.Container
	scoped []Binding

	mu     sync.Mutex
	scopes map[int]*dig.Scope // 线程 id -> scope
}

// NewDigThreadScoped 创建 dig 策略
func NewDigThreadScoped(table Table, log logger.CtxLogger) *DigThreadScoped {
	return &DigThreadScoped{table: table, log: orNop(log)}
}

func (s *DigThreadScoped) Name() string { return LabelDigThreadScoped }

func (s *DigThreadScoped) Setup() (bench.Action, error) {
	if err := validateFor(s.Name(), s.table); err != nil {
		return nil, err
	}

	root := dig.New()
	var scoped []Binding
	for _, b := range s.table {
		switch b.Lifetime {
		case Singleton:
			ctor, err := digConstructor(b)
			if err != nil {
				return nil, ErrSetupFailed.Wrapf(err, "%s: register %q", s.Name(), b.Capability)
			}
			if err := root.Provide(ctor); err != nil {
				return nil, ErrSetupFailed.Wrapf(err, "%s: register %q", s.Name(), b.Capability)
			}
		case Scoped:
			if _, err := digConstructor(b); err != nil {
				return nil, ErrSetupFailed.Wrapf(err, "%s: register %q", s.Name(), b.Capability)
			}
			scoped = append(scoped, b)
		case Transient:
			return nil, ErrSetupFailed.Wrapf(
				ErrUnsupportedLifetime.WithMsgf("dig has no %s lifetime", b.Lifetime).
					WithData("capability", b.Capability),
				"%s: register %q", s.Name(), b.Capability)
		}
	}

	s.mu.Lock()
	s.root = root
	s.scoped = scoped
	s.scopes = make(map[int]*dig.Scope)
	s.mu.Unlock()

	action := func(i int) error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		scope, err := s.threadScope(currentThreadID())
		if err != nil {
			return err
		}
		if err := scope.Invoke(func(getter service.ValueGetter) {
			_ = getter.GetValue(i)
		}); err != nil {
			return ErrResolveFailed.Wrap(err).WithData("capability", CapabilityValueGetter)
		}
		return nil
	}

	if err := probe(s.Name(), action); err != nil {
		return nil, err
	}
	logReady(s.log, s.Name(), s.table)
	return action, nil
}

// ScopeCount 已创建的线程 scope 数
func (s *DigThreadScoped) ScopeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes)
}

func (s *DigThreadScoped) threadScope(tid int) (*dig.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if scope, ok := s.scopes[tid]; ok {
		return scope, nil
	}

	scope := s.root.Scope(fmt.Sprintf("thread-%d", tid))
	for _, b := range s.scoped {
		ctor, err := digConstructor(b)
		if err != nil {
			return nil, ErrResolveFailed.Wrap(err)
		}
		if err := scope.Provide(ctor); err != nil {
			return nil, ErrResolveFailed.Wrapf(err, "provide %q in thread scope", b.Capability)
		}
	}
	s.scopes[tid] = scope

	s.log.DebugCtx(context.Background(), "thread scope created", zap.Int("tid", tid), zap.Int("scopes", len(s.scopes)))
	return scope, nil
}

// digConstructor dig 按类型注入，每个能力对应一个带类型的构造函数
func digConstructor(b Binding) (any, error) {
	switch b.Capability {
	case CapabilityLogger:
		return func() (logger.CtxLogger, error) {
			return construct[logger.CtxLogger](b, Values{})
		}, nil
	case CapabilityValueGetter:
		return func(log logger.CtxLogger) (service.ValueGetter, error) {
			return construct[service.ValueGetter](b, Values{CapabilityLogger: log})
		}, nil
	default:
		return nil, ErrInvalidBinding.WithMsgf("dig: no typed constructor for %q", b.Capability).
			WithData("capability", b.Capability)
	}
}

func construct[T any](b Binding, deps Values) (T, error) {
	var zero T
	v, err := b.Factory(deps)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, ErrUnexpectedType.WithMsgf("%q constructed %T", b.Capability, v).
			WithData("capability", b.Capability)
	}
	return typed, nil
}
