package dashboard

import (
	"context"
	"html/template"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-platform/insights/internal/dashboard/svg"
	"github.com/agentic-platform/insights/internal/dashboard/ui"
	"github.com/agentic-platform/insights/internal/dataset"
)

type countingProvider struct {
	inner dataset.Provider
	calls atomic.Int32
}

func (p *countingProvider) Dataset(ctx context.Context) (dataset.Dataset, error) {
	p.calls.Add(1)
	return p.inner.Dataset(ctx)
}

func (p *countingProvider) Version() string {
	return p.inner.Version()
}

func newTestService(t *testing.T, withCache bool) (*Service, *countingProvider, *miniredis.Miniredis) {
	t.Helper()
	provider := &countingProvider{inner: dataset.MustSample()}
	ds, err := provider.inner.Dataset(context.Background())
	require.NoError(t, err)
	renderer := newTestRenderer(t, ds, Options{})

	var cache *Cache
	var mr *miniredis.Miniredis
	if withCache {
		mr = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		cache = NewCache(client, time.Minute)
	}
	return NewService(provider, renderer, cache, quietLogger()), provider, mr
}

func TestBuildCachesViewModel(t *testing.T) {
	svc, provider, mr := newTestService(t, true)
	ctx := context.Background()

	first, err := svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	assert.Equal(t, provider.Version(), first.DatasetVersion)

	second, err := svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, first.Charts[0].SVG, second.Charts[0].SVG)
	assert.Equal(t, first.Cards, second.Cards)

	key := "dashboard:vm:" + provider.Version() + ":6M:false:1"
	assert.True(t, mr.Exists(key), "expected %s in redis, have %v", key, mr.Keys())
}

func TestInvalidateForcesRebuild(t *testing.T) {
	svc, provider, _ := newTestService(t, true)
	ctx := context.Background()

	_, err := svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	ver, err := svc.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)

	_, err = svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestWarmBuildsEveryRange(t *testing.T) {
	svc, provider, mr := newTestService(t, true)

	n, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, int32(3), provider.calls.Load())
	for _, tr := range TimeRanges() {
		assert.True(t, mr.Exists("dashboard:vm:"+provider.Version()+":"+string(tr)+":false:1"))
	}
}

func TestBuildWithoutCacheRendersEveryTime(t *testing.T) {
	svc, provider, _ := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	_, err = svc.Build(ctx, DefaultUIState())
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())

	ver, err := svc.Invalidate(ctx)
	require.NoError(t, err)
	assert.Zero(t, ver)
}

func TestBuildFallsBackWhenRedisIsDown(t *testing.T) {
	svc, _, mr := newTestService(t, true)
	mr.Close()

	vm, err := svc.Build(context.Background(), DefaultUIState())
	require.NoError(t, err)
	assert.Len(t, vm.Charts, 4)
}

func TestBuildRejectsInvalidRange(t *testing.T) {
	svc, _, _ := newTestService(t, false)
	_, err := svc.Build(context.Background(), UIState{SelectedTimeRange: "9M"})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestListenForInvalidationAppliesPublishedVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cache.ListenForInvalidation(ctx, ""))

	require.NoError(t, client.Publish(ctx, BumpChannel, "7").Err())
	require.Eventually(t, func() bool {
		ver, err := cache.Version(ctx)
		return err == nil && ver == 7
	}, time.Second, 10*time.Millisecond)
}

// gatedLine holds line renders until release is closed, so tests can line up
// concurrent callers behind one in-flight build.
type gatedLine struct {
	svg.Renderer
	started chan struct{}
	release chan struct{}
	once    *sync.Once
}

func newGatedLine() gatedLine {
	return gatedLine{started: make(chan struct{}), release: make(chan struct{}), once: &sync.Once{}}
}

func (g gatedLine) Line(width, height int, labels []string, series []svg.Series, opts svg.LineOpts) (template.HTML, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return svg.Line(width, height, labels, series, opts)
}

func newGatedService(t *testing.T, gate gatedLine, withCache bool) (*Service, *countingProvider) {
	t.Helper()
	provider := &countingProvider{inner: dataset.MustSample()}
	ds, err := provider.inner.Dataset(context.Background())
	require.NoError(t, err)
	renderer := newTestRenderer(t, ds, Options{Charts: gate})

	var cache *Cache
	if withCache {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		cache = NewCache(client, time.Minute)
	}
	return NewService(provider, renderer, cache, quietLogger()), provider
}

type buildResult struct {
	vm  ui.DashboardViewModel
	err error
}

func TestConcurrentBuildsReturnIndependentCopies(t *testing.T) {
	gate := newGatedLine()
	svc, provider := newGatedService(t, gate, false)

	first := make(chan buildResult, 1)
	second := make(chan buildResult, 1)
	go func() {
		vm, err := svc.Build(context.Background(), DefaultUIState())
		first <- buildResult{vm, err}
	}()
	<-gate.started
	go func() {
		vm, err := svc.Build(context.Background(), DefaultUIState())
		second <- buildResult{vm, err}
	}()
	time.Sleep(50 * time.Millisecond)
	close(gate.release)

	a := <-first
	b := <-second
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Equal(t, int32(1), provider.calls.Load())

	// What the JSON API does to its result must not reach the page's.
	for i := range a.vm.Charts {
		a.vm.Charts[i].SVG = ""
	}
	a.vm.Charts[0].Series[0].Points[0].Text = "edited"
	*a.vm.Charts[2].DomainMin = 0

	for _, chart := range b.vm.Charts {
		assert.NotEmpty(t, chart.SVG, chart.ID)
		assert.False(t, chart.Unavailable, chart.ID)
	}
	assert.NotEqual(t, "edited", b.vm.Charts[0].Series[0].Points[0].Text)
	perf, ok := b.vm.Chart(ChartPerformance)
	require.True(t, ok)
	assert.Equal(t, 85.0, *perf.DomainMin)
}

func TestCancelledCallerDoesNotFailSharedBuild(t *testing.T) {
	gate := newGatedLine()
	svc, _ := newGatedService(t, gate, true)

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	leader := make(chan buildResult, 1)
	follower := make(chan buildResult, 1)
	go func() {
		vm, err := svc.Build(leaderCtx, DefaultUIState())
		leader <- buildResult{vm, err}
	}()
	<-gate.started
	go func() {
		vm, err := svc.Build(context.Background(), DefaultUIState())
		follower <- buildResult{vm, err}
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(gate.release)

	l := <-leader
	assert.ErrorIs(t, l.err, context.Canceled)

	f := <-follower
	require.NoError(t, f.err)
	require.Len(t, f.vm.Charts, 4)
	for _, chart := range f.vm.Charts {
		assert.NotEmpty(t, chart.SVG, chart.ID)
	}
}
