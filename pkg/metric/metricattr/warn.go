package metricattr

import (
	"context"
	"sync"

	"github.com/relaycore/metrickit/pkg/observability/xlog"
)

// warnedKeys 记录已经发出过"空键丢弃"告警的调用点，确保每个键
// 只产生一次自诊断日志（§7：热路径永不因属性问题而失败，但每类
// 问题发出且仅发出一次告警）。
var warnedKeys sync.Map // map[string]struct{}

func warnOnce(reason string, key string) {
	cacheKey := reason + "\x00" + key
	if _, loaded := warnedKeys.LoadOrStore(cacheKey, struct{}{}); loaded {
		return
	}
	xlog.Warn(context.Background(), "dropping invalid attribute",
		xlog.Component("metricattr"),
		xlog.Operation(reason),
		xlog.Err(errForReason(reason, key)),
	)
}

func errForReason(reason, key string) error {
	switch reason {
	case "empty_key":
		return ErrEmptyKey
	case "truncated_depth":
		return nil
	default:
		return ErrUnsupportedValue
	}
}
