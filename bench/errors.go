package bench

import "github.com/KOMKZ/go-yogan-dibench/errcode"

// ModuleCode bench 模块码
const ModuleCode = 10

var (
	// ErrInvalidCount 迭代次数必须 >= 1
	ErrInvalidCount = errcode.Register(errcode.New(ModuleCode, 1, "bench", "error.bench.invalid_count", "iteration count must be positive"))

	// ErrIterationFailed 单次迭代失败，整轮中止
	ErrIterationFailed = errcode.Register(errcode.New(ModuleCode, 2, "bench", "error.bench.iteration_failed", "iteration failed"))

	// ErrReportFailed 结果输出失败
	ErrReportFailed = errcode.Register(errcode.New(ModuleCode, 3, "bench", "error.bench.report_failed", "failed to write report"))
)
