package strategy

import "github.com/KOMKZ/go-yogan-dibench/errcode"

// ModuleCode strategy 模块码
const ModuleCode = 20

// 配置类错误退出码为 2，运行期错误为 1
var (
	ErrInvalidBinding = errcode.Register(errcode.New(ModuleCode, 1, "strategy",
		"error.strategy.invalid_binding", "invalid registration table", errcode.ExitConfig))

	ErrSetupFailed = errcode.Register(errcode.New(ModuleCode, 2, "strategy",
		"error.strategy.setup_failed", "strategy setup failed", errcode.ExitConfig))

	ErrResolveFailed = errcode.Register(errcode.New(ModuleCode, 3, "strategy",
		"error.strategy.resolve_failed", "resolution failed"))

	ErrScopeRelease = errcode.Register(errcode.New(ModuleCode, 4, "strategy",
		"error.strategy.scope_release", "failed to release scope"))

	ErrUnsupportedLifetime = errcode.Register(errcode.New(ModuleCode, 5, "strategy",
		"error.strategy.unsupported_lifetime", "lifetime not supported by container", errcode.ExitConfig))

	ErrUnexpectedType = errcode.Register(errcode.New(ModuleCode, 6, "strategy",
		"error.strategy.unexpected_type", "resolved instance has unexpected type"))

	ErrNoAmbientScope = errcode.Register(errcode.New(ModuleCode, 7, "strategy",
		"error.strategy.no_ambient_scope", "no scope attached to context"))
)
