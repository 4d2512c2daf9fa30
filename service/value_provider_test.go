package service

import (
	"math"
	"testing"

	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/stretchr/testify/assert"
)

func TestValueProvider_GetValue(t *testing.T) {
	log := logger.NewTestCtxLogger()
	p := NewValueProvider(log)

	for _, v := range []int{0, 1, -1, 42, 5_000_000, math.MaxInt, math.MinInt} {
		assert.Equal(t, v, p.GetValue(v))
	}
	assert.Same(t, log, p.Logger())

	// 不产生日志
	assert.Empty(t, log.Logs())
}
