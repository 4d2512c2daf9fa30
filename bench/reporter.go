package bench

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ElapsedFormat 耗时输出格式
type ElapsedFormat string

const (
	// FormatDuration Go 风格，如 1.234s
	FormatDuration ElapsedFormat = "duration"
	// FormatClock 秒表风格 hh:mm:ss.fffffff
	FormatClock ElapsedFormat = "clock"
)

// Separator 横幅与结尾分隔线
var Separator = strings.Repeat("=", 53)

// Reporter 控制台报告
//
//	Dependency injection benchmark (5000000 iterations)
//	=====================================================
//	Raw : 1.02ms
//	...
//	=====================================================
type Reporter struct {
	w      io.Writer
	format ElapsedFormat
}

// NewReporter 创建 Reporter，format 为空时使用 duration
func NewReporter(w io.Writer, format ElapsedFormat) *Reporter {
	if format == "" {
		format = FormatDuration
	}
	return &Reporter{w: w, format: format}
}

// Banner 标题与分隔线
func (r *Reporter) Banner(count int) error {
	return r.printf("Dependency injection benchmark (%d iterations)\n%s\n", count, Separator)
}

// Result 单个策略结果行
func (r *Reporter) Result(res Result) error {
	return r.printf("%s : %s\n", res.Label, FormatElapsed(res.Elapsed, r.format))
}

// Footer 结尾分隔线
func (r *Reporter) Footer() error {
	return r.printf("%s\n", Separator)
}

func (r *Reporter) printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		return ErrReportFailed.Wrap(err)
	}
	return nil
}

// FormatElapsed 按格式输出耗时，未知格式按 duration 处理
func FormatElapsed(d time.Duration, format ElapsedFormat) string {
	if format == FormatClock {
		return formatClock(d)
	}
	return d.String()
}

// formatClock [d.]hh:mm:ss[.fffffff]，小数部分为 7 位（100ns 精度），为 0 时省略
func formatClock(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}

	ticks := int64(d / 100) // 100ns
	const (
		ticksPerSecond = int64(time.Second / 100)
		ticksPerMinute = 60 * ticksPerSecond
		ticksPerHour   = 60 * ticksPerMinute
		ticksPerDay    = 24 * ticksPerHour
	)

	days := ticks / ticksPerDay
	hours := ticks % ticksPerDay / ticksPerHour
	minutes := ticks % ticksPerHour / ticksPerMinute
	seconds := ticks % ticksPerMinute / ticksPerSecond
	fraction := ticks % ticksPerSecond

	if days > 0 {
		fmt.Fprintf(&b, "%d.", days)
	}
	fmt.Fprintf(&b, "%02d:%02d:%02d", hours, minutes, seconds)
	if fraction > 0 {
		fmt.Fprintf(&b, ".%07d", fraction)
	}
	return b.String()
}
