// Package application 提供 dibench 的启动框架
// BaseApplication 管理 DI 容器与生命周期，CLIApplication 组合 cobra 命令
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KOMKZ/go-yogan-dibench/config"
	"github.com/KOMKZ/go-yogan-dibench/di"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// BaseApplication 应用核心框架
// 🎯 全部组件由 samber/do 管理，Shutdown 时按依赖反向关闭
type BaseApplication struct {
	injector *do.RootScope

	// 配置管理
	configPath   string
	configPrefix string
	appConfig    *AppConfig

	// 核心组件缓存（快速访问）
	logger       *logger.CtxZapLogger
	configLoader *config.Loader

	// 生命周期
	ctx    context.Context
	cancel context.CancelFunc
	state  AppState
	mu     sync.RWMutex

	// 回调函数
	onSetup    func(*BaseApplication) error
	onReady    func(*BaseApplication) error
	onShutdown func(context.Context) error
}

// AppState 应用状态
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String 状态字符串表示
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// NewBase 创建基础应用实例
// 立即加载 Config 与 Logger，失败返回 ErrConfigLoad
func NewBase(configPath, configPrefix string) (*BaseApplication, error) {
	ctx, cancel := context.WithCancel(context.Background())
	injector := do.New()

	di.RegisterCoreProviders(injector, di.ConfigOptions{
		ConfigPath:   configPath,
		ConfigPrefix: configPrefix,
		Defaults:     DefaultConfigValues(),
	})

	fail := func(err error) (*BaseApplication, error) {
		cancel()
		injector.Shutdown()
		return nil, ErrConfigLoad.Wrap(err).WithData("config_path", configPath)
	}

	configLoader, err := do.Invoke[*config.Loader](injector)
	if err != nil {
		return fail(err)
	}
	coreLogger, err := do.Invoke[*logger.CtxZapLogger](injector)
	if err != nil {
		return fail(err)
	}

	appCfg := DefaultAppConfig()
	if err := configLoader.Unmarshal(&appCfg); err != nil {
		return fail(fmt.Errorf("加载 AppConfig 失败: %w", err))
	}
	if err := appCfg.Validate(); err != nil {
		return fail(err)
	}

	coreLogger.DebugCtx(ctx, "✅ 基础应用初始化完成",
		zap.String("configPath", configPath),
		zap.Strings("loadedFiles", configLoader.GetLoadedFiles()))

	return &BaseApplication{
		injector:     injector,
		configPath:   configPath,
		configPrefix: configPrefix,
		logger:       coreLogger,
		configLoader: configLoader,
		appConfig:    &appCfg,
		ctx:          ctx,
		cancel:       cancel,
		state:        StateInit,
	}, nil
}

// GetVersion 配置中的应用版本号
func (b *BaseApplication) GetVersion() string {
	return b.appConfig.App.Version
}

// Setup 启动核心组件并触发 OnSetup
func (b *BaseApplication) Setup() error {
	b.setState(StateSetup)

	if err := di.StartCoreComponents(b.ctx, b.injector, b.logger); err != nil {
		return ErrConfigLoad.Wrapf(err, "启动核心组件失败")
	}

	if b.onSetup != nil {
		if err := b.onSetup(b); err != nil {
			return fmt.Errorf("onSetup failed: %w", err)
		}
	}
	return nil
}

// Shutdown 优雅关闭
// 关闭报告不成功时返回错误（例如 telemetry 刷新失败）
func (b *BaseApplication) Shutdown(timeout time.Duration) error {
	b.setState(StateStopping)

	log := b.MustGetLogger()
	log.DebugCtx(b.ctx, "🔻 Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 1. 业务层清理
	if b.onShutdown != nil {
		if err := b.onShutdown(ctx); err != nil {
			log.ErrorCtx(ctx, "OnShutdown callback failed", zap.Error(err))
		}
	}

	b.cancel()

	// 2. 关闭 DI 容器（telemetry 刷新、日志文件关闭）
	var err error
	if report := b.injector.ShutdownWithContext(ctx); !report.Succeed {
		log.ErrorCtx(ctx, "DI container shutdown failed", zap.String("report", report.Error()))
		err = fmt.Errorf("DI container shutdown failed: %s", report.Error())
	}

	log.DebugCtx(ctx, "✅ 所有组件已关闭")
	b.setState(StateStopped)
	return err
}

// Cancel 手动取消应用上下文
func (b *BaseApplication) Cancel() {
	b.cancel()
}

// OnSetup 注册 Setup 阶段回调
func (b *BaseApplication) OnSetup(fn func(*BaseApplication) error) *BaseApplication {
	b.onSetup = fn
	return b
}

// OnReady 注册启动完成回调
func (b *BaseApplication) OnReady(fn func(*BaseApplication) error) *BaseApplication {
	b.onReady = fn
	return b
}

// OnShutdown 注册关闭前回调
func (b *BaseApplication) OnShutdown(fn func(context.Context) error) *BaseApplication {
	b.onShutdown = fn
	return b
}

// MustGetLogger 核心日志实例（NewBase 中已初始化）
func (b *BaseApplication) MustGetLogger() *logger.CtxZapLogger {
	if b.logger == nil {
		panic("logger not initialized, please call NewBase() first")
	}
	return b.logger
}

// GetConfigLoader 配置加载器
func (b *BaseApplication) GetConfigLoader() *config.Loader {
	return b.configLoader
}

// GetInjector samber/do 注入器
func (b *BaseApplication) GetInjector() *do.RootScope {
	return b.injector
}

// LoadAppConfig 通用配置（已在 NewBase 中加载并缓存）
func (b *BaseApplication) LoadAppConfig() *AppConfig {
	return b.appConfig
}

// GetState 当前状态（线程安全）
func (b *BaseApplication) GetState() AppState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Context 应用上下文
func (b *BaseApplication) Context() context.Context {
	return b.ctx
}

func (b *BaseApplication) setState(state AppState) {
	b.mu.Lock()
	oldState := b.state
	b.state = state
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.DebugCtx(b.ctx, "State changed",
			zap.String("from", oldState.String()),
			zap.String("to", state.String()))
	}
}
