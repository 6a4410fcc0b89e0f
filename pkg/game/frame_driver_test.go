package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/decker502/skysplat/pkg/shader"
)

// recorder 记录调用顺序
type recorder struct {
	calls []string
}

type recordingUpdater struct {
	name   string
	rec    *recorder
	frames []Frame
}

func (u *recordingUpdater) UpdateFrame(f Frame) {
	u.rec.calls = append(u.rec.calls, u.name)
	u.frames = append(u.frames, f)
}

type recordingRedrawer struct {
	rec   *recorder
	count int
}

func (r *recordingRedrawer) Redraw() {
	r.rec.calls = append(r.rec.calls, "redraw")
	r.count++
}

func newTestDriver(ctx context.Context, ft *fakeTime) (*FrameDriver, *recorder, *recordingUpdater, *recordingUpdater, *recordingRedrawer, *shader.TimeUniform) {
	rec := &recorder{}
	a := &recordingUpdater{name: "a", rec: rec}
	b := &recordingUpdater{name: "b", rec: rec}
	rd := &recordingRedrawer{rec: rec}
	u := shader.NewTimeUniform()
	d := NewFrameDriver(ctx, NewClockWithSource(ft.Now), u, rd, a, b)
	return d, rec, a, b, rd, u
}

func TestFrameDriverTickOrder(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	d, rec, _, _, _, _ := newTestDriver(context.Background(), ft)

	if d.State() != StateRunning {
		t.Fatalf("initial state = %v, want Running", d.State())
	}
	if err := d.Tick(); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	want := []string{"a", "b", "redraw"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("calls[%d] = %s, want %s", i, rec.calls[i], want[i])
		}
	}
}

// TestFrameDriverSharedSample 同一帧内所有消费者看到同一个时间
func TestFrameDriverSharedSample(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	d, _, a, b, _, u := newTestDriver(context.Background(), ft)

	ft.Add(1500 * time.Millisecond)
	d.Tick()

	if a.frames[0] != b.frames[0] {
		t.Errorf("updaters saw different frames: %+v vs %+v", a.frames[0], b.frames[0])
	}
	if a.frames[0].Elapsed != 1.5 {
		t.Errorf("Elapsed = %v, want 1.5", a.frames[0].Elapsed)
	}
	if u.Value() != 1.5 {
		t.Errorf("uniform = %v, want 1.5", u.Value())
	}
}

// TestFrameDriverNoSkipping 每次 Tick 都执行一帧，不合并
func TestFrameDriverNoSkipping(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	d, _, a, _, rd, _ := newTestDriver(context.Background(), ft)

	for i := 0; i < 5; i++ {
		ft.Add(16 * time.Millisecond)
		if err := d.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if d.Frames() != 5 || rd.count != 5 || len(a.frames) != 5 {
		t.Errorf("frames=%d redraws=%d updates=%d, want 5 each", d.Frames(), rd.count, len(a.frames))
	}
	for i, f := range a.frames {
		if f.Index != uint64(i+1) {
			t.Errorf("frame %d index = %d", i, f.Index)
		}
	}
	if last := d.LastFrame(); last.Delta <= 0 {
		t.Errorf("LastFrame().Delta = %v, want > 0", last.Delta)
	}
}

// TestFrameDriverStopsOnCancel 宿主上下文取消后进入终止状态
func TestFrameDriverStopsOnCancel(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	d, _, a, _, rd, _ := newTestDriver(ctx, ft)

	d.Tick()
	cancel()

	if err := d.Tick(); !errors.Is(err, ErrStopped) {
		t.Fatalf("Tick after cancel = %v, want ErrStopped", err)
	}
	if d.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", d.State())
	}

	// 终止状态下不再触碰协作者
	for i := 0; i < 3; i++ {
		if err := d.Tick(); !errors.Is(err, ErrStopped) {
			t.Errorf("Tick %d = %v, want ErrStopped", i, err)
		}
	}
	if len(a.frames) != 1 || rd.count != 1 {
		t.Errorf("collaborators touched after stop: updates=%d redraws=%d", len(a.frames), rd.count)
	}
}

func TestFrameDriverNilCollaborators(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	d := NewFrameDriver(nil, NewClockWithSource(ft.Now), nil, nil)
	if err := d.Tick(); err != nil {
		t.Errorf("Tick() with nil collaborators: %v", err)
	}
}

func TestFrameDriverAddUpdater(t *testing.T) {
	ft := &fakeTime{now: time.Unix(0, 0)}
	d := NewFrameDriver(context.Background(), NewClockWithSource(ft.Now), nil, nil)

	var seen []uint64
	d.AddUpdater(FrameUpdaterFunc(func(f Frame) {
		seen = append(seen, f.Index)
	}))
	d.Tick()
	d.Tick()
	if len(seen) != 2 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestDriverStateString(t *testing.T) {
	if StateRunning.String() != "Running" || StateStopped.String() != "Stopped" {
		t.Error("unexpected state names")
	}
}
