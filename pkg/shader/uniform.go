package shader

// TimeUniform 在一帧内被所有顶点共享的时间单元
//
// 帧驱动器每帧写入一次，渲染系统在同一帧内按顶点多次读取。
// 写入和读取发生在同一个线程上，不需要加锁。
type TimeUniform struct {
	value float64
}

// NewTimeUniform 创建初始值为 0 的时间 uniform
func NewTimeUniform() *TimeUniform {
	return &TimeUniform{}
}

// Set 写入本帧时间
func (u *TimeUniform) Set(t float64) {
	u.value = t
}

// Value 读取本帧时间；nil uniform 视为 0
func (u *TimeUniform) Value() float64 {
	if u == nil {
		return 0
	}
	return u.value
}
