package application

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-dibench/bench"
)

// AppConfig 框架级配置
// logger、telemetry 由各自的 Provider 从 Loader 读取，这里不重复
type AppConfig struct {
	App   AppInfoConfig `mapstructure:"app"`
	Bench BenchConfig   `mapstructure:"bench"`
}

// AppInfoConfig 应用元信息
type AppInfoConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// BenchConfig 基准输出配置
type BenchConfig struct {
	// ElapsedFormat duration（默认）或 clock
	ElapsedFormat string `mapstructure:"elapsed_format"`
}

// DefaultAppConfig 默认配置
func DefaultAppConfig() AppConfig {
	return AppConfig{
		App: AppInfoConfig{
			Name:    "dibench",
			Version: "1.0.0",
		},
		Bench: BenchConfig{
			ElapsedFormat: string(bench.FormatDuration),
		},
	}
}

// DefaultConfigValues 内置默认值，作为优先级最低的配置源
func DefaultConfigValues() map[string]interface{} {
	cfg := DefaultAppConfig()
	return map[string]interface{}{
		"app": map[string]interface{}{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		},
		"bench": map[string]interface{}{
			"elapsed_format": cfg.Bench.ElapsedFormat,
		},
	}
}

// Validate 验证配置
func (c AppConfig) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name cannot be empty")
	}
	switch bench.ElapsedFormat(c.Bench.ElapsedFormat) {
	case bench.FormatDuration, bench.FormatClock:
	default:
		return fmt.Errorf("invalid bench.elapsed_format: %s (must be duration or clock)", c.Bench.ElapsedFormat)
	}
	return nil
}

// ElapsedFormat 输出格式
func (c AppConfig) ElapsedFormat() bench.ElapsedFormat {
	return bench.ElapsedFormat(c.Bench.ElapsedFormat)
}
