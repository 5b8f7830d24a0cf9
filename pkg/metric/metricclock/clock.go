package metricclock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock 是核心状态机消费的最小时钟接口：单调递增的纳秒时间戳。
type Clock interface {
	// Now 返回当前时间戳。实现必须保证连续调用非递减。
	Now() time.Time
}

// clockworkClock 适配 clockwork.Clock 到 Clock。
type clockworkClock struct {
	cw clockwork.Clock
}

func (c clockworkClock) Now() time.Time {
	return c.cw.Now()
}

// Real 返回基于系统时钟的 [Clock] 实现。
func Real() Clock {
	return clockworkClock{cw: clockwork.NewRealClock()}
}

// Fake 是测试用的可手动推进时钟，包装 clockwork.FakeClock。
type Fake struct {
	cw *clockwork.FakeClock
}

// NewFake 创建一个从给定起点开始的可手动推进时钟。
// start 为零值时使用 clockwork 的默认起点。
func NewFake(start time.Time) *Fake {
	if start.IsZero() {
		return &Fake{cw: clockwork.NewFakeClock()}
	}
	return &Fake{cw: clockwork.NewFakeClockAt(start)}
}

// Now 实现 Clock。
func (f *Fake) Now() time.Time {
	return f.cw.Now()
}

// Advance 将时钟向前推进 d。
func (f *Fake) Advance(d time.Duration) {
	f.cw.Advance(d)
}
