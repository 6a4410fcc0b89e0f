package game

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/skysplat/internal/envmap"
	"github.com/decker502/skysplat/internal/splat"
)

// AssetKind 异步加载的资源类型
type AssetKind int

const (
	AssetEnvMap AssetKind = iota
	AssetSplat
)

func (k AssetKind) String() string {
	switch k {
	case AssetEnvMap:
		return "envmap"
	case AssetSplat:
		return "splat"
	default:
		return "unknown"
	}
}

// AssetResult 一次加载的结果
// Err 非 nil 时其余字段为空
type AssetResult struct {
	Kind   AssetKind
	Path   string
	EnvMap *envmap.EnvMap
	Cloud  *splat.Cloud
	Err    error
}

// 未指定路径时使用的内置资源尺寸
const (
	proceduralSkyWidth  = 512
	proceduralSkyHeight = 256
	demoCloudPoints     = 4000
)

// AssetLoader 在后台 goroutine 中解码资源
//
// 结果不会直接写入场景：主线程每帧调用 Poll 取走已完成的结果，
// 再把组件挂到对应实体上。结果到达之前，实体缺少组件，
// TransformSystem 会跳过它。
type AssetLoader struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu      sync.Mutex
	done    []AssetResult
	pending int
}

// NewAssetLoader 创建加载器；ctx 取消或调用 Close 后，未完成的结果被丢弃
func NewAssetLoader(ctx context.Context) *AssetLoader {
	ctx, cancel := context.WithCancel(ctx)
	return &AssetLoader{
		ctx:    ctx,
		cancel: cancel,
	}
}

// LoadEnvMap 异步加载环境贴图
// path 为空时生成程序化天空
func (l *AssetLoader) LoadEnvMap(path string, maxWidth int) {
	l.start(AssetEnvMap, path, func() (AssetResult, error) {
		if path == "" {
			return AssetResult{EnvMap: envmap.Procedural(proceduralSkyWidth, proceduralSkyHeight)}, nil
		}
		env, err := envmap.Load(path, maxWidth)
		return AssetResult{EnvMap: env}, err
	})
}

// LoadSplat 异步加载点云
// path 为空时生成演示点云
func (l *AssetLoader) LoadSplat(path string, maxPoints int) {
	l.start(AssetSplat, path, func() (AssetResult, error) {
		if path == "" {
			return AssetResult{Cloud: splat.DemoCloud(demoCloudPoints)}, nil
		}
		cloud, err := splat.LoadFile(path, maxPoints)
		return AssetResult{Cloud: cloud}, err
	})
}

func (l *AssetLoader) start(kind AssetKind, path string, load func() (AssetResult, error)) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.group.Go(func() error {
		res, err := load()
		res.Kind = kind
		res.Path = path
		if err != nil {
			res = AssetResult{Kind: kind, Path: path, Err: err}
			log.Printf("[AssetLoader] Failed to load %s %q: %v", kind, path, err)
		} else {
			log.Printf("[AssetLoader] Loaded %s %q", kind, path)
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		l.pending--
		if l.ctx.Err() != nil {
			return l.ctx.Err()
		}
		l.done = append(l.done, res)
		if err != nil {
			return fmt.Errorf("load %s %q: %w", kind, path, err)
		}
		return nil
	})
}

// Poll 取走所有已完成的结果，不阻塞
func (l *AssetLoader) Poll() []AssetResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.done) == 0 {
		return nil
	}
	out := l.done
	l.done = nil
	return out
}

// Pending 返回尚未完成的加载数
func (l *AssetLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait 阻塞直到所有加载完成，返回第一个失败的错误
// 仅用于命令行工具和测试，主循环使用 Poll
func (l *AssetLoader) Wait() error {
	return l.group.Wait()
}

// Close 丢弃之后完成的结果
func (l *AssetLoader) Close() {
	l.cancel()
}
