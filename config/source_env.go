package config

import (
	"os"
	"strings"
)

// EnvSource 环境变量数据源
// 层级用双下划线分隔，单下划线保留在 key 内：
//
//	DIBENCH_TELEMETRY__EXPORTER__TYPE=stdout -> telemetry.exporter.type
//	DIBENCH_LOGGER__ENABLE_CONSOLE=false     -> logger.enable_console
type EnvSource struct {
	prefix   string
	priority int
	bindings map[string]string // 显式映射：配置 key -> 环境变量名
}

// NewEnvSource 创建环境变量数据源
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
	}
}

// AddBinding 显式绑定，设置后只读取绑定的变量
//
//	AddBinding("bench.elapsed_format", "FORMAT") // 读取 DIBENCH_FORMAT
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

func (s *EnvSource) Priority() int {
	return s.priority
}

func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			full := envKey
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				full = s.prefix + "_" + envKey
			}
			if value, ok := os.LookupEnv(full); ok && value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if key := envToKey(strings.TrimPrefix(name, prefix)); key != "" {
			result[key] = value
		}
	}
	return result, nil
}

// envToKey TELEMETRY__EXPORTER__TYPE -> telemetry.exporter.type
func envToKey(name string) string {
	parts := strings.Split(strings.ToLower(name), "__")
	keys := parts[:0]
	for _, p := range parts {
		if p != "" {
			keys = append(keys, p)
		}
	}
	return strings.Join(keys, ".")
}
