// Package testutil CLI 测试辅助
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/go-yogan-dibench/logger"
)

// QuietConfig 关闭控制台日志和遥测，测试输出只剩基准结果
const QuietConfig = `
logger:
  enable_console: false
telemetry:
  enabled: false
`

// CLITestContext CLI 测试上下文
type CLITestContext struct {
	// ConfigDir 临时配置目录，包含 config.yaml
	ConfigDir string
	// Out 基准结果输出
	Out *bytes.Buffer
	// Logger 内存日志
	Logger *logger.TestCtxLogger
}

// CLITestOptions CLI 测试选项
type CLITestOptions struct {
	// ConfigYAML config.yaml 内容，为空时使用 QuietConfig
	ConfigYAML string

	// EnvYAML 以 APP_ENV=test 加载的 test.yaml（可选）
	EnvYAML string

	// Env 测试期间设置的环境变量
	Env map[string]string
}

// NewCLITestContext 创建测试上下文，临时目录与环境变量随测试结束清理
//
//	tc := testutil.NewCLITestContext(t, testutil.CLITestOptions{
//	    Env: map[string]string{"DIBENCH_BENCH__ELAPSED_FORMAT": "clock"},
//	})
//	app, err := application.NewBench(tc.ConfigDir, "DIBENCH", application.WithOutput(tc.Out))
func NewCLITestContext(t *testing.T, opts CLITestOptions) *CLITestContext {
	t.Helper()

	yaml := opts.ConfigYAML
	if yaml == "" {
		yaml = QuietConfig
	}
	dir := t.TempDir()
	WriteConfig(t, dir, "config.yaml", yaml)

	t.Setenv("APP_ENV", "test")
	if opts.EnvYAML != "" {
		WriteConfig(t, dir, "test.yaml", opts.EnvYAML)
	}

	for k, v := range opts.Env {
		t.Setenv(k, v)
	}

	return &CLITestContext{
		ConfigDir: dir,
		Out:       &bytes.Buffer{},
		Logger:    logger.NewTestCtxLogger(),
	}
}

// WriteConfig 写入配置文件，失败时终止测试
func WriteConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}
