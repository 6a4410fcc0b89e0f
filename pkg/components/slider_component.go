package components

// SliderComponent 滑动条组件
// 用于参数面板中绑定到一个命名参数的数值编辑
type SliderComponent struct {
	// Field 绑定的参数名
	Field string
	// Label 显示名称
	Label string

	// 取值范围与步长，Step 为 0 时不吸附
	Min  float64
	Max  float64
	Step float64

	// Value 当前值（参数单位，不是 0-1 比例）
	Value float64

	// 屏幕位置与尺寸（像素）
	X      float64
	Y      float64
	Width  float64
	Height float64

	// 状态
	IsDragging bool // 是否正在拖动
	IsHovered  bool // 是否鼠标悬停

	// OnValueChange 值改变时的回调，参数为吸附后的值
	OnValueChange func(value float64)
}

// Ratio 返回当前值在范围内的比例（0.0 - 1.0）
func (s *SliderComponent) Ratio() float64 {
	if s.Max <= s.Min {
		return 0
	}
	r := (s.Value - s.Min) / (s.Max - s.Min)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
