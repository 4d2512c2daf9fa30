package config

// ConfigSource 配置数据源（文件、环境变量、内置默认值）
type ConfigSource interface {
	// Name 数据源名称（日志与调试用）
	Name() string

	// Priority 数值越大优先级越高
	//   - 内置默认值: 1
	//   - config.yaml: 10
	//   - <env>.yaml: 20
	//   - 环境变量: 50
	Priority() int

	// Load 返回点号分隔 key 的扁平 map，如 "telemetry.exporter.type"
	Load() (map[string]interface{}, error)
}

// 内置优先级
const (
	PriorityDefaults = 1
	PriorityFile     = 10
	PriorityEnvFile  = 20
	PriorityEnv      = 50
)

// DefaultsSource 内置默认值数据源
type DefaultsSource struct {
	values   map[string]interface{}
	priority int
}

// NewDefaultsSource values 可以是嵌套 map，加载时展平
func NewDefaultsSource(values map[string]interface{}, priority int) *DefaultsSource {
	return &DefaultsSource{values: values, priority: priority}
}

func (s *DefaultsSource) Name() string {
	return "defaults"
}

func (s *DefaultsSource) Priority() int {
	return s.priority
}

func (s *DefaultsSource) Load() (map[string]interface{}, error) {
	return flattenMap("", s.values), nil
}
