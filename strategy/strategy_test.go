package strategy

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/KOMKZ/go-yogan-dibench/errcode"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// containerStrategies 所有基于注册表的策略
func containerStrategies(table Table) []Strategy {
	return []Strategy{
		NewDoScoped(table, nil),
		NewVesselScoped(table, nil),
		NewDigThreadScoped(table, nil),
		NewVesselContextScoped(table, nil),
	}
}

func TestDefaults_Order(t *testing.T) {
	var names []string
	for _, s := range Defaults(logger.NewNopManager(), nil) {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		LabelRaw,
		LabelDoScoped,
		LabelVesselScoped,
		LabelDigThreadScoped,
		LabelVesselContextScoped,
	}, names)
}

func TestStrategies_Action(t *testing.T) {
	defer goleak.VerifyNone(t)

	log := logger.NewTestCtxLogger()
	for _, s := range Defaults(logger.NewNopManager(), log) {
		t.Run(s.Name(), func(t *testing.T) {
			action, err := s.Setup()
			require.NoError(t, err)
			require.NotNil(t, action)

			for i := 1; i <= 200; i++ {
				require.NoError(t, action(i))
			}

			// 同一输入重复调用结果一致
			assert.NoError(t, action(7))
			assert.NoError(t, action(7))

			assert.True(t, log.HasLogWithField("DEBUG", "strategy ready", "strategy", s.Name()))
		})
	}
}

func TestStrategies_MissingRequirement(t *testing.T) {
	table := DefaultTable(logger.NewNopManager())
	getter, _ := table.Lookup(CapabilityValueGetter)
	broken := Table{getter} // 缺少 logger

	for _, s := range containerStrategies(broken) {
		t.Run(s.Name(), func(t *testing.T) {
			action, err := s.Setup()
			assert.Nil(t, action)
			assert.ErrorIs(t, err, ErrSetupFailed)
			assert.ErrorIs(t, err, ErrInvalidBinding)
			assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
		})
	}
}

func TestStrategies_NoValueGetter(t *testing.T) {
	table := DefaultTable(logger.NewNopManager())
	logBinding, _ := table.Lookup(CapabilityLogger)

	for _, s := range containerStrategies(Table{logBinding}) {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Setup()
			assert.ErrorIs(t, err, ErrSetupFailed)
		})
	}
}

func TestStrategies_ProbeFailure(t *testing.T) {
	table := DefaultTable(logger.NewNopManager())
	for i := range table {
		if table[i].Capability == CapabilityValueGetter {
			table[i].Factory = func(Dependencies) (any, error) {
				return nil, errors.New("constructor exploded")
			}
		}
	}

	for _, s := range containerStrategies(table) {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Setup()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSetupFailed)
			assert.Contains(t, err.Error(), "constructor exploded")
			assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
		})
	}
}

func TestRaw_NilManager(t *testing.T) {
	_, err := NewRaw(nil, nil).Setup()
	assert.ErrorIs(t, err, ErrSetupFailed)
}

// countingGetter 记录构造与释放次数
type countingGetter struct {
	*service.ValueProvider
	released *atomic.Int64
}

// Dispose vessel 在 scope 结束时调用
func (g *countingGetter) Dispose() error {
	g.released.Add(1)
	return nil
}

// Shutdown samber/do 在 scope 关闭时调用
func (g *countingGetter) Shutdown() error {
	g.released.Add(1)
	return nil
}

type counters struct {
	created  atomic.Int64
	released atomic.Int64
	fail     atomic.Bool
}

func countingTable(c *counters) Table {
	table := DefaultTable(logger.NewNopManager())
	for i := range table {
		if table[i].Capability != CapabilityValueGetter {
			continue
		}
		table[i].Factory = func(deps Dependencies) (any, error) {
			if c.fail.Load() {
				return nil, errors.New("factory failure")
			}
			log, err := Get[logger.CtxLogger](deps, CapabilityLogger)
			if err != nil {
				return nil, err
			}
			c.created.Add(1)
			return &countingGetter{ValueProvider: service.NewValueProvider(log), released: &c.released}, nil
		}
	}
	return table
}

func TestScopedStrategies_ReleaseEveryCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	const calls = 50
	build := map[string]func(Table) Strategy{
		LabelDoScoped:            func(t Table) Strategy { return NewDoScoped(t, nil) },
		LabelVesselScoped:        func(t Table) Strategy { return NewVesselScoped(t, nil) },
		LabelVesselContextScoped: func(t Table) Strategy { return NewVesselContextScoped(t, nil) },
	}

	for name, newStrategy := range build {
		t.Run(name, func(t *testing.T) {
			c := &counters{}
			action, err := newStrategy(countingTable(c)).Setup()
			require.NoError(t, err)

			for i := 1; i <= calls; i++ {
				require.NoError(t, action(i))
			}

			// Setup 中的探测调用也算一次
			assert.Equal(t, int64(calls+1), c.created.Load())
			assert.Equal(t, c.created.Load(), c.released.Load())

			// 失败的调用同样释放 scope，之后的调用不受影响
			c.fail.Store(true)
			err = action(1)
			assert.ErrorIs(t, err, ErrResolveFailed)
			assert.Equal(t, errcode.ExitFailure, errcode.ExitCode(err))

			c.fail.Store(false)
			require.NoError(t, action(2))
			assert.Equal(t, c.created.Load(), c.released.Load())
		})
	}
}

func TestDigThreadScoped_OneScopePerThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := &counters{}
	s := NewDigThreadScoped(countingTable(c), nil)
	action, err := s.Setup()
	require.NoError(t, err)

	for i := 1; i <= 1000; i++ {
		require.NoError(t, action(i))
	}

	assert.Equal(t, 1, s.ScopeCount())
	// scoped 实例在线程 scope 内只构造一次
	assert.Equal(t, int64(1), c.created.Load())
}

func TestDigThreadScoped_TransientUnsupported(t *testing.T) {
	table := DefaultTable(logger.NewNopManager())
	for i := range table {
		if table[i].Capability == CapabilityValueGetter {
			table[i].Lifetime = Transient
		}
	}

	_, err := NewDigThreadScoped(table, nil).Setup()
	assert.ErrorIs(t, err, ErrSetupFailed)
	assert.ErrorIs(t, err, ErrUnsupportedLifetime)
	assert.Equal(t, errcode.ExitConfig, errcode.ExitCode(err))
}

func TestDigThreadScoped_UnknownCapability(t *testing.T) {
	table := append(DefaultTable(logger.NewNopManager()), Binding{
		Capability: "clock",
		Lifetime:   Singleton,
		Factory:    nopFactory,
	})

	_, err := NewDigThreadScoped(table, nil).Setup()
	assert.ErrorIs(t, err, ErrSetupFailed)
	assert.ErrorIs(t, err, ErrInvalidBinding)
}

func TestTransientLifetime_DoAndVessel(t *testing.T) {
	c := &counters{}
	table := countingTable(c)
	for i := range table {
		if table[i].Capability == CapabilityValueGetter {
			table[i].Lifetime = Transient
		}
	}

	for _, s := range []Strategy{NewDoScoped(table, nil), NewVesselScoped(table, nil)} {
		t.Run(s.Name(), func(t *testing.T) {
			before := c.created.Load()
			action, err := s.Setup()
			require.NoError(t, err)
			require.NoError(t, action(1))
			require.NoError(t, action(2))
			// 探测 + 两次调用，每次都新建
			assert.Equal(t, before+3, c.created.Load())
		})
	}
}

func TestScopeFromContext(t *testing.T) {
	_, err := ScopeFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoAmbientScope)

	err = resolveFromContext(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoAmbientScope)
}

func TestCallGetter_UnexpectedType(t *testing.T) {
	err := callGetter(func(string) (any, error) { return 42, nil }, 1)
	assert.ErrorIs(t, err, ErrUnexpectedType)

	err = callGetter(func(string) (any, error) { return nil, errors.New("gone") }, 1)
	assert.ErrorIs(t, err, ErrResolveFailed)
}

func BenchmarkStrategies(b *testing.B) {
	for _, s := range Defaults(logger.NewNopManager(), nil) {
		action, err := s.Setup()
		if err != nil {
			b.Fatalf("%s: %v", s.Name(), err)
		}
		b.Run(s.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := action(i); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
