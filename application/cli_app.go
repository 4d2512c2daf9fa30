package application

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CLIApplication CLI 应用（BaseApplication + cobra 根命令）
type CLIApplication struct {
	*BaseApplication

	rootCmd *cobra.Command
}

// NewCLI 创建 CLI 应用
// configPath: 配置目录（如 configs/dibench），configPrefix: 环境变量前缀（如 DIBENCH）
func NewCLI(configPath, configPrefix string, rootCmd *cobra.Command) (*CLIApplication, error) {
	if configPrefix == "" {
		configPrefix = "DIBENCH"
	}

	baseApp, err := NewBase(configPath, configPrefix)
	if err != nil {
		return nil, err
	}

	return &CLIApplication{
		BaseApplication: baseApp,
		rootCmd:         rootCmd,
	}, nil
}

// OnSetup 注册 Setup 阶段回调（链式调用）
func (c *CLIApplication) OnSetup(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnSetup(func(base *BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnReady 注册就绪回调（链式调用）
func (c *CLIApplication) OnReady(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnReady(func(base *BaseApplication) error {
		return fn(c)
	})
	return c
}

// OnShutdown 注册关闭回调（链式调用）
func (c *CLIApplication) OnShutdown(fn func(*CLIApplication) error) *CLIApplication {
	c.BaseApplication.OnShutdown(func(ctx context.Context) error {
		return fn(c)
	})
	return c
}

// Execute 同步执行命令，完成后关闭
// 无论命令成功与否都会执行优雅关闭
func (c *CLIApplication) Execute() error {
	started := time.Now()

	if err := c.Setup(); err != nil {
		return multierr.Append(err, c.gracefulShutdown())
	}

	c.setState(StateRunning)
	if c.onReady != nil {
		if err := c.onReady(c.BaseApplication); err != nil {
			return multierr.Append(fmt.Errorf("onReady failed: %w", err), c.gracefulShutdown())
		}
	}

	log := c.MustGetLogger()
	log.DebugCtx(c.ctx, "✅ CLI application initialized", zap.Duration("startup", time.Since(started)))

	err := c.rootCmd.ExecuteContext(c.ctx)

	return multierr.Append(err, c.gracefulShutdown())
}

// gracefulShutdown CLI 应用通常很快结束，超时 5 秒
func (c *CLIApplication) gracefulShutdown() error {
	c.MustGetLogger().DebugCtx(c.ctx, "Starting CLI application graceful shutdown...")
	return c.BaseApplication.Shutdown(5 * time.Second)
}

// GetRootCmd 根命令（测试用）
func (c *CLIApplication) GetRootCmd() *cobra.Command {
	return c.rootCmd
}
