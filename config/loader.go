package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Loader 多数据源配置加载器
// 按 Priority 从低到高合并，同名 key 高优先级覆盖
type Loader struct {
	sources      []ConfigSource
	mergedConfig map[string]interface{} // 扁平 key
	v            *viper.Viper
	loadedFiles  []string
}

// NewLoader 创建空加载器
func NewLoader() *Loader {
	return &Loader{
		sources:      make([]ConfigSource, 0),
		mergedConfig: make(map[string]interface{}),
		v:            viper.New(),
		loadedFiles:  make([]string, 0),
	}
}

// AddSource 添加数据源
func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Load 加载并合并所有数据源
func (l *Loader) Load() error {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	l.mergedConfig = make(map[string]interface{})
	l.loadedFiles = l.loadedFiles[:0]
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("加载数据源 %s 失败: %w", source.Name(), err)
		}

		if fileSource, ok := source.(*FileSource); ok && len(data) > 0 {
			l.loadedFiles = append(l.loadedFiles, fileSource.Path())
		}

		l.mergeFlat(data)
	}

	l.syncToViper()
	return nil
}

func (l *Loader) mergeFlat(data map[string]interface{}) {
	for key, value := range data {
		l.mergedConfig[strings.ToLower(key)] = value
	}
}

// syncToViper 合并结果还原为嵌套结构后写入新的 Viper 实例
func (l *Loader) syncToViper() {
	nested := unflattenMap(l.mergedConfig)

	l.v = viper.New()
	for key, value := range nested {
		l.v.Set(key, value)
	}
}

// unflattenMap {"logger.level": "info"} -> {"logger": {"level": "info"}}
func unflattenMap(flat map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	// 短 key 先写，保证 "a.b" 与 "a.b.c" 同时存在时更深的 key 生效
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return len(keys[i]) < len(keys[j])
	})

	for _, key := range keys {
		setNestedValue(result, key, flat[key])
	}
	return result
}

func setNestedValue(m map[string]interface{}, key string, value interface{}) {
	keys := splitKey(key)
	if len(keys) == 0 {
		return
	}

	current := m
	for _, k := range keys[:len(keys)-1] {
		nested, ok := current[k].(map[string]interface{})
		if !ok {
			nested = make(map[string]interface{})
			current[k] = nested
		}
		current = nested
	}
	current[keys[len(keys)-1]] = value
}

// splitKey 按点号切分，忽略空段
func splitKey(key string) []string {
	parts := strings.Split(key, ".")
	result := parts[:0]
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Unmarshal 整体解析到结构体（mapstructure 标签）
func (l *Loader) Unmarshal(v interface{}) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey 解析某个子树，key 不存在时 v 保持原值
//
//	cfg := logger.DefaultManagerConfig()
//	_ = loader.UnmarshalKey("logger", &cfg)
func (l *Loader) UnmarshalKey(key string, v interface{}) error {
	if !l.v.IsSet(key) {
		return nil
	}
	if err := l.v.UnmarshalKey(key, v); err != nil {
		return fmt.Errorf("解析配置 %s 失败: %w", key, err)
	}
	return nil
}

func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

func (l *Loader) GetInt(key string) int {
	return l.v.GetInt(key)
}

func (l *Loader) GetBool(key string) bool {
	return l.v.GetBool(key)
}

// IsSet key 是否存在
func (l *Loader) IsSet(key string) bool {
	return l.v.IsSet(key)
}

// AllSettings 全部配置（嵌套）
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}

// GetLoadedFiles 实际读到内容的配置文件
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}

// GetViper 底层 Viper 实例
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Reload 重新加载
func (l *Loader) Reload() error {
	return l.Load()
}
