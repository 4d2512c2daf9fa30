package application

import "github.com/KOMKZ/go-yogan-dibench/errcode"

// ModuleCode application 模块码
const ModuleCode = 30

var (
	// ErrConfigLoad 配置加载或核心组件初始化失败
	ErrConfigLoad = errcode.Register(errcode.New(ModuleCode, 1, "application", "error.application.config_load", "failed to load configuration", errcode.ExitConfig))

	// ErrStrategiesMissing 容器中没有可运行的策略
	ErrStrategiesMissing = errcode.Register(errcode.New(ModuleCode, 2, "application", "error.application.strategies_missing", "no strategies resolved", errcode.ExitConfig))
)
