package config

import (
	"os"
	"path/filepath"
)

// LoaderBuilder 按固定优先级组装数据源
//
//	defaults(1) < config.yaml(10) < <env>.yaml(20) < 环境变量(50)
type LoaderBuilder struct {
	configPath string
	envPrefix  string
	defaults   map[string]interface{}
}

// NewLoaderBuilder 创建 Builder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{}
}

// WithConfigPath 配置目录
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix 环境变量前缀，如 DIBENCH
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithDefaults 内置默认值（可嵌套）
func (b *LoaderBuilder) WithDefaults(defaults map[string]interface{}) *LoaderBuilder {
	b.defaults = defaults
	return b
}

// Build 创建并加载
func (b *LoaderBuilder) Build() (*Loader, error) {
	loader := NewLoader()

	if len(b.defaults) > 0 {
		loader.AddSource(NewDefaultsSource(b.defaults, PriorityDefaults))
	}

	if b.configPath != "" {
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), PriorityFile))
		if env := GetEnv(); env != "" {
			loader.AddSource(NewFileSource(filepath.Join(b.configPath, env+".yaml"), PriorityEnvFile))
		}
	}

	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, PriorityEnv))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}
	return loader, nil
}

// GetEnv 运行环境：APP_ENV > ENV > dev
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}
