package strategy

import (
	"github.com/KOMKZ/go-yogan-dibench/bench"
	"github.com/KOMKZ/go-yogan-dibench/logger"
	"github.com/KOMKZ/go-yogan-dibench/service"
)

// Raw 不经过容器，每次调用直接构造 ValueProvider
type Raw struct {
	mgr *logger.Manager
	log logger.CtxLogger
}

// NewRaw 基线策略
func NewRaw(mgr *logger.Manager, log logger.CtxLogger) *Raw {
	return &Raw{mgr: mgr, log: orNop(log)}
}

func (s *Raw) Name() string { return LabelRaw }

func (s *Raw) Setup() (bench.Action, error) {
	if s.mgr == nil {
		return nil, ErrSetupFailed.WithMsgf("%s: logger manager is nil", s.Name())
	}
	valueLog := s.mgr.GetLogger(service.ModuleName)

	action := func(i int) error {
		var getter service.ValueGetter = service.NewValueProvider(valueLog)
		_ = getter.GetValue(i)
		return nil
	}

	logReady(s.log, s.Name(), nil)
	return action, nil
}
