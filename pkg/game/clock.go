package game

import "time"

// Clock 帧时间源
//
// 每帧调用一次 Advance 采样时间，同一帧内的所有消费者通过 Elapsed 读取同一个值，
// 不会各自重新采样。采样结果单调不减：时间源回退时保持上一次的值。
type Clock struct {
	now     func() time.Time
	start   time.Time
	elapsed float64
}

// NewClock 使用系统单调时钟创建时间源
func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource 使用自定义时间源创建 Clock（用于测试）
// 创建时刻即为 0 秒
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{
		now:   now,
		start: now(),
	}
}

// Advance 采样一次时间源
//
// 返回：
//   - elapsed: 自创建以来的秒数
//   - dt: 与上一次采样的差值，时间源回退时为 0
func (c *Clock) Advance() (elapsed, dt float64) {
	e := c.now().Sub(c.start).Seconds()
	if e < c.elapsed {
		e = c.elapsed
	}
	dt = e - c.elapsed
	c.elapsed = e
	return e, dt
}

// Elapsed 返回最近一次采样的秒数
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
