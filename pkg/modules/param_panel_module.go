package modules

import (
	"fmt"
	"image/color"
	"log"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/config"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/game"
	"github.com/decker502/skysplat/pkg/systems"
	"github.com/decker502/skysplat/pkg/utils"
)

// 面板布局（像素）
const (
	panelPadding     = 10.0
	panelRowHeight   = 36.0
	panelLabelHeight = 16.0
	panelSlotHeight  = 10.0
	panelKnobRadius  = 6.0
	panelMinWidth    = 120.0
	panelFontSize    = 13.0
)

var (
	panelBackground = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xd0}
	panelSlotColor  = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	panelFillColor  = color.RGBA{R: 0x2f, G: 0xa1, B: 0xd6, A: 0xff}
	panelKnobColor  = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	panelKnobActive = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	panelLabelColor = color.RGBA{R: 0xeb, G: 0xeb, B: 0xeb, A: 0xff}
)

// ParamPanelModule 调试参数面板
//
// 职责：
//   - 为参数表中的每个字段创建一个滑块实体（按声明顺序排列）
//   - 滑块值变化时写入参数表，并立即请求一次重绘
//   - 绘制面板背景、标签和滑块
//   - 提供命中测试，避免拖动滑块时同时旋转相机
//
// 面板只是参数表的一个编辑入口，参数的取值范围和吸附由参数表负责。
type ParamPanelModule struct {
	entityManager *ecs.EntityManager
	store         *game.ParameterStore
	sliderSystem  *systems.SliderSystem
	redrawer      game.Redrawer

	// 字段名 -> 滑块实体
	sliders map[string]ecs.EntityID
	fields  []string

	// 标签字体，创建失败时退回 ebitenutil 的调试字体
	labelFont *text.GoTextFace

	x, y, width float64
	visible     bool

	onChange func(field string, value float64)
}

// NewParamPanelModule 创建参数面板
//
// 参数：
//   - em: 实体管理器
//   - store: 参数表（滑块的取值来源）
//   - sliderSystem: 滑块交互系统
//   - redrawer: 值变化时请求重绘的渲染引擎，可以为 nil
//   - gui: 面板位置、宽度和初始可见性
//   - onChange: 值变化后的通知（可选，用于持久化）
func NewParamPanelModule(
	em *ecs.EntityManager,
	store *game.ParameterStore,
	sliderSystem *systems.SliderSystem,
	redrawer game.Redrawer,
	gui config.GUIConfig,
	onChange func(field string, value float64),
) *ParamPanelModule {
	width := gui.Width
	if width < panelMinWidth {
		width = panelMinWidth
	}

	m := &ParamPanelModule{
		entityManager: em,
		store:         store,
		sliderSystem:  sliderSystem,
		redrawer:      redrawer,
		sliders:       make(map[string]ecs.EntityID),
		x:             gui.X,
		y:             gui.Y,
		width:         width,
		onChange:      onChange,
	}

	labelFont, err := utils.LabelFace(panelFontSize)
	if err != nil {
		log.Printf("[ParamPanelModule] Warning: Failed to load label font: %v", err)
	}
	m.labelFont = labelFont
	m.fitLabels()

	for i, field := range store.Fields() {
		m.createSlider(i, field)
	}
	m.SetVisible(gui.Show)

	log.Printf("[ParamPanelModule] Created %d sliders", len(m.fields))
	return m
}

// fitLabels 面板太窄时加宽，保证最长的标签（含最大值）放得下
func (m *ParamPanelModule) fitLabels() {
	for _, field := range m.store.Fields() {
		r, _ := m.store.Range(field)
		label := fmt.Sprintf("%s: %s", m.store.Label(field), formatValue(r.Max, r.Step))
		if w, _ := utils.MeasureText(label, m.labelFont); w+2*panelPadding > m.width {
			m.width = w + 2*panelPadding
		}
	}
}

// createSlider 为一个字段创建滑块实体
func (m *ParamPanelModule) createSlider(row int, field string) {
	r, _ := m.store.Range(field)
	top := m.y + panelPadding + float64(row)*panelRowHeight

	entity := m.entityManager.CreateEntity()
	slider := &components.SliderComponent{
		Field:  field,
		Label:  m.store.Label(field),
		Min:    r.Min,
		Max:    r.Max,
		Step:   r.Step,
		Value:  m.store.Get(field),
		X:      m.x + panelPadding,
		Y:      top + panelLabelHeight,
		Width:  m.width - 2*panelPadding,
		Height: panelSlotHeight,
	}
	slider.OnValueChange = func(value float64) {
		m.applyValue(slider, value)
	}
	ecs.AddComponent(m.entityManager, entity, slider)

	m.sliders[field] = entity
	m.fields = append(m.fields, field)
}

// applyValue 把滑块值写入参数表并请求重绘
func (m *ParamPanelModule) applyValue(slider *components.SliderComponent, value float64) {
	stored := m.store.Set(slider.Field, value)
	slider.Value = stored

	if m.redrawer != nil {
		m.redrawer.Redraw()
	}
	if m.onChange != nil {
		m.onChange(slider.Field, stored)
	}
}

// Update 处理滑块输入
func (m *ParamPanelModule) Update() {
	m.sliderSystem.Update()
}

// Sync 从参数表刷新所有滑块的显示值（参数被重置或从存档恢复后调用）
func (m *ParamPanelModule) Sync() {
	for field, entity := range m.sliders {
		slider, ok := ecs.GetComponent[*components.SliderComponent](m.entityManager, entity)
		if !ok {
			continue
		}
		slider.Value = m.store.Get(field)
	}
}

// SetVisible 显示或隐藏面板
func (m *ParamPanelModule) SetVisible(visible bool) {
	m.visible = visible
	m.sliderSystem.SetHidden(!visible)
}

// Toggle 切换面板可见性，返回切换后的状态
func (m *ParamPanelModule) Toggle() bool {
	m.SetVisible(!m.visible)
	return m.visible
}

// IsVisible 面板是否可见
func (m *ParamPanelModule) IsVisible() bool {
	return m.visible
}

// Bounds 返回面板矩形
func (m *ParamPanelModule) Bounds() (x, y, width, height float64) {
	height = 2*panelPadding + float64(len(m.fields))*panelRowHeight - (panelRowHeight - panelLabelHeight - panelSlotHeight)
	return m.x, m.y, m.width, height
}

// HitTest 屏幕坐标是否落在可见的面板上
func (m *ParamPanelModule) HitTest(px, py int) bool {
	if !m.visible {
		return false
	}
	x, y, w, h := m.Bounds()
	fx, fy := float64(px), float64(py)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

// SliderEntity 返回字段对应的滑块实体
func (m *ParamPanelModule) SliderEntity(field string) (ecs.EntityID, bool) {
	id, ok := m.sliders[field]
	return id, ok
}

// Draw 绘制面板
func (m *ParamPanelModule) Draw(screen *ebiten.Image) {
	if !m.visible {
		return
	}

	x, y, w, h := m.Bounds()
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), panelBackground, false)

	for _, field := range m.fields {
		slider, ok := ecs.GetComponent[*components.SliderComponent](m.entityManager, m.sliders[field])
		if !ok {
			continue
		}
		m.drawSlider(screen, slider)
	}
}

func (m *ParamPanelModule) drawSlider(screen *ebiten.Image, s *components.SliderComponent) {
	label := fmt.Sprintf("%s: %s", s.Label, formatValue(s.Value, s.Step))
	if m.labelFont != nil {
		utils.DrawText(screen, label, m.labelFont, s.X, s.Y-panelLabelHeight, panelLabelColor)
	} else {
		ebitenutil.DebugPrintAt(screen, label, int(s.X), int(s.Y-panelLabelHeight))
	}

	sx, sy := float32(s.X), float32(s.Y)
	sw, sh := float32(s.Width), float32(s.Height)
	vector.FillRect(screen, sx, sy, sw, sh, panelSlotColor, false)

	fill := sw * float32(s.Ratio())
	vector.FillRect(screen, sx, sy, fill, sh, panelFillColor, false)

	knob := panelKnobColor
	if s.IsDragging || s.IsHovered {
		knob = panelKnobActive
	}
	vector.FillCircle(screen, sx+fill, sy+sh/2, panelKnobRadius, knob, true)
}

// formatValue 按步长决定小数位数
func formatValue(v, step float64) string {
	decimals := 0
	for s := step; decimals < 6 && s > 0 && s < 1; s *= 10 {
		decimals++
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
