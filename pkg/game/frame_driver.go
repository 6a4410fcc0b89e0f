package game

import (
	"context"
	"errors"
	"log"

	"github.com/decker502/skysplat/pkg/shader"
)

// ErrStopped 帧驱动器已进入终止状态
var ErrStopped = errors.New("frame driver stopped")

// DriverState 帧驱动器状态
type DriverState int

const (
	// StateRunning 创建后唯一可达的状态
	StateRunning DriverState = iota
	// StateStopped 终止状态，宿主上下文取消后进入
	StateStopped
)

func (s DriverState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Frame 一帧的采样结果，同一帧内所有 FrameUpdater 收到同一个值
type Frame struct {
	Index   uint64  // 从 1 开始的帧序号
	Elapsed float64 // 自时钟创建以来的秒数
	Delta   float64 // 与上一帧的间隔（秒）
}

// FrameUpdater 每帧被调用一次的更新器
type FrameUpdater interface {
	UpdateFrame(f Frame)
}

// FrameUpdaterFunc 允许普通函数作为 FrameUpdater
type FrameUpdaterFunc func(f Frame)

// UpdateFrame 调用 f(frame)
func (fn FrameUpdaterFunc) UpdateFrame(f Frame) {
	fn(f)
}

// Redrawer 渲染引擎的重绘入口
type Redrawer interface {
	Redraw()
}

// FrameDriver 帧循环驱动器
//
// 宿主（ebiten 的 Update）每次刷新调用一次 Tick，顺序为：
//  1. 推进时钟并写入位移 uniform
//  2. 按注册顺序运行所有 FrameUpdater
//  3. 请求重绘
//
// 驱动器不提供显式停止：宿主上下文被取消后（窗口关闭），下一次 Tick 进入 Stopped，
// 之后的 Tick 都返回 ErrStopped 且不再触碰任何协作者。
type FrameDriver struct {
	ctx      context.Context
	clock    *Clock
	uniform  *shader.TimeUniform
	redrawer Redrawer
	updaters []FrameUpdater

	state DriverState
	last  Frame
}

// NewFrameDriver 创建处于 Running 状态的帧驱动器
//
// 参数：
//   - ctx: 宿主生命周期，取消即停止
//   - clock: 帧时间源
//   - uniform: 位移函数共享的时间 uniform，可为 nil
//   - redrawer: 渲染引擎，可为 nil（测试中不需要重绘）
//   - updaters: 每帧按顺序调用的更新器
func NewFrameDriver(ctx context.Context, clock *Clock, uniform *shader.TimeUniform, redrawer Redrawer, updaters ...FrameUpdater) *FrameDriver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &FrameDriver{
		ctx:      ctx,
		clock:    clock,
		uniform:  uniform,
		redrawer: redrawer,
		updaters: updaters,
		state:    StateRunning,
	}
}

// AddUpdater 追加一个更新器，在已注册的更新器之后运行
func (d *FrameDriver) AddUpdater(u FrameUpdater) {
	d.updaters = append(d.updaters, u)
}

// Tick 执行一帧
//
// 返回：
//   - error: 驱动器已停止时返回 ErrStopped，否则为 nil
func (d *FrameDriver) Tick() error {
	if d.state == StateStopped {
		return ErrStopped
	}
	if err := d.ctx.Err(); err != nil {
		d.state = StateStopped
		log.Printf("[FrameDriver] Stopped after %d frames: %v", d.last.Index, err)
		return ErrStopped
	}

	elapsed, dt := d.clock.Advance()
	if d.uniform != nil {
		d.uniform.Set(elapsed)
	}

	d.last = Frame{
		Index:   d.last.Index + 1,
		Elapsed: elapsed,
		Delta:   dt,
	}
	for _, u := range d.updaters {
		u.UpdateFrame(d.last)
	}

	if d.redrawer != nil {
		d.redrawer.Redraw()
	}
	return nil
}

// State 返回当前状态
func (d *FrameDriver) State() DriverState {
	return d.state
}

// Frames 返回已执行的帧数
func (d *FrameDriver) Frames() uint64 {
	return d.last.Index
}

// LastFrame 返回最近一帧的采样结果
func (d *FrameDriver) LastFrame() Frame {
	return d.last
}
