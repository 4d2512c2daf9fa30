package application

import (
	"context"
	"io"
	"strconv"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/strategy"
	"go.uber.org/zap"
)

// DefaultIterations 未指定或无法解析时的迭代次数
const DefaultIterations = 5_000_000

// ParseIterations 取第一个位置参数；缺失、非整数或 <= 0 时返回默认值
func ParseIterations(args []string) int {
	if len(args) == 0 {
		return DefaultIterations
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return DefaultIterations
	}
	return n
}

// Driver 依次运行各策略并输出结果
type Driver struct {
	runner     *bench.Runner
	log        logger.CtxLogger
	strategies []strategy.Strategy
	format     bench.ElapsedFormat
}

// NewDriver 创建 Driver，策略按传入顺序运行
func NewDriver(runner *bench.Runner, log logger.CtxLogger, strategies ...strategy.Strategy) *Driver {
	if log == nil {
		log = logger.NewNopManager().GetLogger("driver")
	}
	return &Driver{
		runner:     runner,
		log:        log,
		strategies: strategies,
		format:     bench.FormatDuration,
	}
}

// WithFormat 设置耗时格式
func (d *Driver) WithFormat(format bench.ElapsedFormat) *Driver {
	d.format = format
	return d
}

// Run 横幅 -> 每个策略 Setup/Run/结果行 -> 结尾分隔线
// 任一策略失败立即返回，后续策略不运行，也不输出结尾
func (d *Driver) Run(ctx context.Context, out io.Writer, args []string) error {
	if len(d.strategies) == 0 {
		return ErrStrategiesMissing
	}

	count := ParseIterations(args)
	reporter := bench.NewReporter(out, d.format)

	if err := reporter.Banner(count); err != nil {
		return err
	}

	for _, s := range d.strategies {
		action, err := s.Setup()
		if err != nil {
			d.log.ErrorCtx(ctx, "strategy setup failed", zap.String("label", s.Name()), zap.Error(err))
			return err
		}

		res, err := d.runner.Run(ctx, s.Name(), action, count)
		if err != nil {
			return err
		}

		if err := reporter.Result(res); err != nil {
			return err
		}
	}

	return reporter.Footer()
}
