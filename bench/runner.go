// Package bench 计时执行与结果输出
package bench

import (
	"context"
	"time"

	"github.com/KOMKZ/go-yogan-dibench/logger"
	"go.uber.org/zap"
)

// Action 单次迭代，i 从 1 开始
type Action func(i int) error

// Result 一个策略的计时结果
type Result struct {
	Label      string
	Elapsed    time.Duration
	Iterations int
	StartedAt  time.Time
}

// Observer 结果观察者（telemetry 等）
type Observer interface {
	Observe(ctx context.Context, r Result)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ctx context.Context, r Result)

func (f ObserverFunc) Observe(ctx context.Context, r Result) {
	f(ctx, r)
}

// Clock 计时源，测试中替换
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type systemClock struct{}

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// Runner 顺序执行 Action 并计时
type Runner struct {
	log       logger.CtxLogger
	observers []Observer
	clock     Clock
}

// Option Runner 选项
type Option func(*Runner)

// WithLogger 设置日志（默认不输出）
func WithLogger(log logger.CtxLogger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithObserver 追加观察者，按注册顺序通知
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithClock 替换计时源
func WithClock(c Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// NewRunner 创建 Runner
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log:   logger.NewNopManager().GetLogger("bench"),
		clock: systemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run 以 1..count 依次调用 action，返回总耗时
// 第一次失败即中止，不重试
func (r *Runner) Run(ctx context.Context, label string, action Action, count int) (Result, error) {
	if count < 1 {
		return Result{}, ErrInvalidCount.WithData("count", count)
	}

	r.log.DebugCtx(ctx, "strategy started", zap.String("label", label), zap.Int("iterations", count))

	start := r.clock.Now()
	for i := 1; i <= count; i++ {
		if err := action(i); err != nil {
			r.log.ErrorCtx(ctx, "iteration failed",
				zap.String("label", label),
				zap.Int("iteration", i),
				zap.Error(err))
			return Result{}, ErrIterationFailed.
				Wrapf(err, "%s: iteration %d failed", label, i).
				WithData("label", label).
				WithData("iteration", i)
		}
	}
	elapsed := r.clock.Since(start)

	res := Result{
		Label:      label,
		Elapsed:    elapsed,
		Iterations: count,
		StartedAt:  start,
	}

	r.log.InfoCtx(ctx, "strategy finished",
		zap.String("label", label),
		zap.Int("iterations", count),
		zap.Duration("elapsed", elapsed))

	for _, o := range r.observers {
		o.Observe(ctx, res)
	}
	return res, nil
}
