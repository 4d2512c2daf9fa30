// Package di 基于 samber/do 组装 dibench 自身的组件
package di

import "github.com/samber/do/v2"

// Injector 类型别名
type Injector = do.Injector

// RootScope 类型别名
type RootScope = do.RootScope

// New 创建新的根注入器
var New = do.New

// NewWithOpts 使用选项创建新的根注入器
var NewWithOpts = do.NewWithOpts

// 泛型函数不能导出为 var，需要通过 do 包调用：
//
//	injector := di.New()
//	di.RegisterCoreProviders(injector, di.ConfigOptions{ConfigPath: "configs/dibench"})
//	runner := do.MustInvoke[*bench.Runner](injector)
