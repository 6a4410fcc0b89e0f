package game

import (
	"log"
	"math"
	"sort"

	"github.com/decker502/skysplat/pkg/config"
)

// Range 参数的取值范围与编辑步长
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp 将 v 限制在 [Min, Max] 内
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// parameter 单个参数的声明与当前值
type parameter struct {
	label        string
	rng          Range
	defaultValue float64
	value        float64
}

// ParameterStore 可编辑的命名数值参数
//
// 由编辑面板写入，每帧由 TransformSystem 读取。
// 只在主线程上访问，不加锁。
// Set 超出范围时静默截断到最近的边界（不取模回绕），NaN 视为越界并恢复默认值。
// Store 本身没有副作用，重绘由调用方负责。
type ParameterStore struct {
	order  []string
	params map[string]*parameter
}

// NewParameterStore 按声明顺序创建参数存储，所有参数取默认值
//
// 参数：
//   - params: 参数声明（名称、标签、范围、默认值），通常来自 SceneConfig.Parameters
func NewParameterStore(params []config.ParameterConfig) *ParameterStore {
	s := &ParameterStore{
		order:  make([]string, 0, len(params)),
		params: make(map[string]*parameter, len(params)),
	}
	for _, p := range params {
		if _, dup := s.params[p.Name]; dup {
			log.Printf("[ParameterStore] Duplicate parameter %q ignored", p.Name)
			continue
		}
		rng := Range{Min: p.Min, Max: p.Max, Step: p.Step}
		def := rng.Clamp(p.Default)
		s.order = append(s.order, p.Name)
		s.params[p.Name] = &parameter{
			label:        p.Label,
			rng:          rng,
			defaultValue: def,
			value:        def,
		}
	}
	return s
}

// Has 判断参数是否存在
func (s *ParameterStore) Has(name string) bool {
	_, ok := s.params[name]
	return ok
}

// Get 返回参数当前值；未知参数返回 0
func (s *ParameterStore) Get(name string) float64 {
	if p, ok := s.params[name]; ok {
		return p.value
	}
	return 0
}

// Set 写入参数值并返回实际存储的值
//
// 超出范围的值被截断到 [Min, Max]；未知参数被忽略并返回 0。
func (s *ParameterStore) Set(name string, v float64) float64 {
	p, ok := s.params[name]
	if !ok {
		return 0
	}
	p.value = p.clamp(v)
	return p.value
}

// Clamp 返回 Set(name, v) 将会存储的值，不修改参数
func (s *ParameterStore) Clamp(name string, v float64) float64 {
	if p, ok := s.params[name]; ok {
		return p.clamp(v)
	}
	return 0
}

func (p *parameter) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.defaultValue
	}
	return p.rng.Clamp(v)
}

// Range 返回参数的声明范围
func (s *ParameterStore) Range(name string) (Range, bool) {
	if p, ok := s.params[name]; ok {
		return p.rng, true
	}
	return Range{}, false
}

// Label 返回参数的显示名称，未配置时返回参数名
func (s *ParameterStore) Label(name string) string {
	if p, ok := s.params[name]; ok && p.label != "" {
		return p.label
	}
	return name
}

// Default 返回参数默认值
func (s *ParameterStore) Default(name string) float64 {
	if p, ok := s.params[name]; ok {
		return p.defaultValue
	}
	return 0
}

// Fields 按声明顺序返回所有参数名
func (s *ParameterStore) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Snapshot 返回所有参数当前值的副本，用于持久化
func (s *ParameterStore) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.order))
	for _, name := range s.order {
		out[name] = s.params[name].value
	}
	return out
}

// Restore 从快照恢复参数值
//
// 快照中的未知参数被忽略（记录日志），越界值按 Set 的规则截断。
func (s *ParameterStore) Restore(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !s.Has(name) {
			log.Printf("[ParameterStore] Unknown parameter %q ignored", name)
			continue
		}
		s.Set(name, values[name])
	}
}

// Reset 将所有参数恢复为默认值
func (s *ParameterStore) Reset() {
	for _, p := range s.params {
		p.value = p.defaultValue
	}
}
