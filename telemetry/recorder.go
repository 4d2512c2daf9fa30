package telemetry

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Recorder 把每个策略的结果记为指标和 span（实现 bench.Observer）
//
//	<ns>.strategy.elapsed     histogram, 秒
//	<ns>.strategy.iterations  counter
//	<ns>.strategy.op_duration histogram, 纳秒/次
type Recorder struct {
	tracer     trace.Tracer
	elapsed    metric.Float64Histogram
	iterations metric.Int64Counter
	perOp      metric.Float64Histogram
}

var _ bench.Observer = (*Recorder)(nil)

// NewRecorder 创建记录器，namespace 为空时使用 dibench
func NewRecorder(meter metric.Meter, tracer trace.Tracer, namespace string) (*Recorder, error) {
	if namespace == "" {
		namespace = "dibench"
	}

	elapsed, err := meter.Float64Histogram(namespace+".strategy.elapsed",
		metric.WithDescription("Wall-clock time of one strategy run"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create elapsed histogram failed: %w", err)
	}

	iterations, err := meter.Int64Counter(namespace+".strategy.iterations",
		metric.WithDescription("Resolutions executed per strategy"),
		metric.WithUnit("{iteration}"))
	if err != nil {
		return nil, fmt.Errorf("create iterations counter failed: %w", err)
	}

	perOp, err := meter.Float64Histogram(namespace+".strategy.op_duration",
		metric.WithDescription("Mean time per resolution"),
		metric.WithUnit("ns"))
	if err != nil {
		return nil, fmt.Errorf("create op duration histogram failed: %w", err)
	}

	return &Recorder{
		tracer:     tracer,
		elapsed:    elapsed,
		iterations: iterations,
		perOp:      perOp,
	}, nil
}

// Observe 记录一次结果；span 的起止时间取自结果本身
func (r *Recorder) Observe(ctx context.Context, res bench.Result) {
	attrs := metric.WithAttributes(attribute.String("strategy", res.Label))

	r.elapsed.Record(ctx, res.Elapsed.Seconds(), attrs)
	r.iterations.Add(ctx, int64(res.Iterations), attrs)
	if res.Iterations > 0 {
		r.perOp.Record(ctx, float64(res.Elapsed.Nanoseconds())/float64(res.Iterations), attrs)
	}

	_, span := r.tracer.Start(ctx, "strategy "+res.Label,
		trace.WithTimestamp(res.StartedAt),
		trace.WithAttributes(
			attribute.String("strategy", res.Label),
			attribute.Int("iterations", res.Iterations),
			attribute.Int64("elapsed_ns", res.Elapsed.Nanoseconds()),
		))
	span.End(trace.WithTimestamp(res.StartedAt.Add(res.Elapsed)))
}
