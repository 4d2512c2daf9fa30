package config

import (
	"go.uber.org/multierr"
)

// Validator 配置验证接口（各模块实现）
type Validator interface {
	Validate() error
}

// ValidateAll 验证全部配置，返回合并后的错误
func ValidateAll(validators ...Validator) error {
	var err error
	for _, v := range validators {
		if v == nil {
			continue
		}
		err = multierr.Append(err, v.Validate())
	}
	return err
}
