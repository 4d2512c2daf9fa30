package application

import (
	"io"
	"os"

	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/strategy"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// BenchApplication dibench 应用：CLIApplication + Driver
type BenchApplication struct {
	*CLIApplication

	out        io.Writer
	strategies []strategy.Strategy
}

// BenchOption 应用选项
type BenchOption func(*BenchApplication)

// WithStrategies 替换默认策略列表（测试用）
func WithStrategies(strategies ...strategy.Strategy) BenchOption {
	return func(app *BenchApplication) {
		app.strategies = strategies
	}
}

// WithOutput 结果输出目标，默认 stdout
func WithOutput(w io.Writer) BenchOption {
	return func(app *BenchApplication) {
		app.out = w
	}
}

// NewBench 创建基准应用
//
//	app, err := application.NewBench("configs/dibench", "DIBENCH")
//	if err != nil { ... }
//	err = app.Run(os.Args[1:])
func NewBench(configPath, configPrefix string, opts ...BenchOption) (*BenchApplication, error) {
	app := &BenchApplication{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	rootCmd := &cobra.Command{
		Use:           "dibench [iterations]",
		Short:         "Dependency injection container micro-benchmark",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// 无 flag，"-5" 之类的参数按位置参数处理
		DisableFlagParsing: true,
		RunE:               app.runBench,
	}

	cli, err := NewCLI(configPath, configPrefix, rootCmd)
	if err != nil {
		return nil, err
	}
	app.CLIApplication = cli
	return app, nil
}

// Run 以给定参数执行（不含程序名）
func (a *BenchApplication) Run(args []string) error {
	// nil 会让 cobra 回退到 os.Args
	if args == nil {
		args = []string{}
	}
	a.rootCmd.SetArgs(args)
	a.rootCmd.SetOut(a.out)
	return a.Execute()
}

func (a *BenchApplication) runBench(cmd *cobra.Command, args []string) error {
	runner, err := do.Invoke[*bench.Runner](a.injector)
	if err != nil {
		return ErrConfigLoad.Wrap(err)
	}

	strategies := a.strategies
	if strategies == nil {
		strategies, err = do.Invoke[[]strategy.Strategy](a.injector)
		if err != nil {
			return ErrStrategiesMissing.Wrap(err)
		}
	}

	driver := NewDriver(runner, a.MustGetLogger(), strategies...).
		WithFormat(a.appConfig.ElapsedFormat())
	return driver.Run(cmd.Context(), a.out, args)
}
