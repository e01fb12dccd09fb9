package investigations_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/cache"
	"github.com/JaimeStill/steward/pkg/metrics"
	"github.com/JaimeStill/steward/pkg/pagination"
)

func seededStore(t *testing.T) requests.System {
	t.Helper()
	store := requests.New(testLogger(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	if err := requests.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func findRequest(t *testing.T, store requests.System, npi string, rt requests.RequestType) requests.Request {
	t.Helper()
	for _, r := range store.List(context.Background()) {
		if r.NPI == npi && r.RequestType == rt {
			return r
		}
	}
	t.Fatalf("no seeded request for %s/%s", npi, rt)
	return requests.Request{}
}

type countingResolver struct {
	inner investigations.Resolver
	calls atomic.Int32
}

func (c *countingResolver) Run(ctx context.Context, npi string, rt requests.RequestType) (map[investigations.SourceID]investigations.Result, error) {
	c.calls.Add(1)
	return c.inner.Run(ctx, npi, rt)
}

// gatedResolver blocks its first call until released, ignoring cancellation.
type gatedResolver struct {
	inner   investigations.Resolver
	entered chan struct{}
	release chan struct{}
	first   sync.Once
}

func newGatedResolver(inner investigations.Resolver) *gatedResolver {
	return &gatedResolver{
		inner:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedResolver) Run(ctx context.Context, npi string, rt requests.RequestType) (map[investigations.SourceID]investigations.Result, error) {
	gated := false
	g.first.Do(func() { gated = true })
	if gated {
		close(g.entered)
		<-g.release
	}
	return g.inner.Run(context.Background(), npi, rt)
}

func TestStartReportsSearching(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1164037024", requests.TypeSpecialtyUpdate)

	ctx, cancel := context.WithCancel(context.Background())
	sys := investigations.New(store, newSimulator(), investigations.Config{Delay: time.Hour}, testLogger(),
		investigations.WithContext(ctx))
	defer func() {
		cancel()
		sys.Wait()
	}()

	snap, err := sys.Start(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if snap.Generation != 1 || snap.State != investigations.StateSearching {
		t.Errorf("snapshot: generation %d state %s", snap.Generation, snap.State)
	}
	for id, r := range snap.Results {
		if r.Status != investigations.StatusSearching {
			t.Errorf("%s: got %s, want searching", id, r.Status)
		}
	}
	if snap.Summary.Searching != len(investigations.SourceOrder) {
		t.Errorf("summary searching: got %d", snap.Summary.Searching)
	}
}

func TestAwaitResolves(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1164037024", requests.TypeSpecialtyUpdate)
	reg := metrics.New("test")

	sys := investigations.New(store, newSimulator(), investigations.Config{Timeout: time.Second}, testLogger(),
		investigations.WithMetrics(reg))
	defer sys.Wait()

	started, err := sys.Start(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	snap, err := sys.Await(context.Background(), req.ID, started.Generation)
	if err != nil {
		t.Fatalf("await: %v", err)
	}

	if snap.State != investigations.StateComplete || snap.CompletedAt == nil {
		t.Fatalf("state: got %s", snap.State)
	}
	if got := snap.Results[investigations.SourceNursys].Status; got != investigations.StatusFound {
		t.Errorf("nursys: got %s, want found", got)
	}
	if snap.Summary.Found < 2 {
		t.Errorf("summary found: got %d", snap.Summary.Found)
	}
	if got := testutil.ToFloat64(reg.Investigations.WithLabelValues("resolved")); got != 1 {
		t.Errorf("resolved metric: got %v, want 1", got)
	}
}

func TestLatestRunWins(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1356035752", requests.TypeLicenseVerification)

	sys := investigations.New(store, newSimulator(), investigations.Config{Delay: 20 * time.Millisecond}, testLogger())
	defer sys.Wait()

	ctx := context.Background()
	first, err := sys.Start(ctx, req.ID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := sys.Start(ctx, req.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if second.Generation != first.Generation+1 {
		t.Fatalf("generation: got %d, want %d", second.Generation, first.Generation+1)
	}

	if _, err := sys.Await(ctx, req.ID, first.Generation); !errors.Is(err, investigations.ErrSuperseded) {
		t.Errorf("await superseded: got %v", err)
	}

	snap, err := sys.Await(ctx, req.ID, 0)
	if err != nil {
		t.Fatalf("await latest: %v", err)
	}
	if snap.Generation != second.Generation || snap.State != investigations.StateComplete {
		t.Errorf("latest: generation %d state %s", snap.Generation, snap.State)
	}
}

func TestStaleCompletionDropped(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1164037024", requests.TypeLicenseVerification)
	reg := metrics.New("test")
	gated := newGatedResolver(newSimulator())

	sys := investigations.New(store, gated, investigations.Config{}, testLogger(), investigations.WithMetrics(reg))
	ctx := context.Background()

	if _, err := sys.Start(ctx, req.ID); err != nil {
		t.Fatalf("first start: %v", err)
	}
	<-gated.entered

	second, err := sys.Start(ctx, req.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	latest, err := sys.Await(ctx, req.ID, second.Generation)
	if err != nil {
		t.Fatalf("await second: %v", err)
	}

	close(gated.release)
	sys.Wait()

	if got := testutil.ToFloat64(reg.Investigations.WithLabelValues("stale")); got != 1 {
		t.Errorf("stale metric: got %v, want 1", got)
	}

	snap, err := sys.Snapshot(ctx, req.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Generation != second.Generation || !snap.CompletedAt.Equal(*latest.CompletedAt) {
		t.Errorf("stale completion overwrote snapshot: generation %d", snap.Generation)
	}
}

func TestResultsCached(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1164037024", requests.TypeSpecialtyUpdate)
	resolver := &countingResolver{inner: newSimulator()}

	sys := investigations.New(store, resolver, investigations.Config{}, testLogger(),
		investigations.WithCache(cache.NewMemory(time.Minute)))
	defer sys.Wait()

	ctx := context.Background()
	var last *investigations.Snapshot
	for range 2 {
		started, err := sys.Start(ctx, req.ID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		last, err = sys.Await(ctx, req.ID, started.Generation)
		if err != nil {
			t.Fatalf("await: %v", err)
		}
	}

	if got := resolver.calls.Load(); got != 1 {
		t.Errorf("resolver calls: got %d, want 1", got)
	}
	if !last.Cached {
		t.Error("second run should be served from cache")
	}
	if got := last.Results[investigations.SourceNursys].Status; got != investigations.StatusFound {
		t.Errorf("cached nursys: got %s", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	store := seededStore(t)
	req := findRequest(t, store, "1164037024", requests.TypeSpecialtyUpdate)

	sys := investigations.New(store, newSimulator(), investigations.Config{}, testLogger())
	defer sys.Wait()

	ctx := context.Background()
	started, _ := sys.Start(ctx, req.ID)
	if _, err := sys.Await(ctx, req.ID, started.Generation); err != nil {
		t.Fatalf("await: %v", err)
	}

	snap, _ := sys.Snapshot(ctx, req.ID)
	delete(snap.Results, investigations.SourceNPPES)

	again, _ := sys.Snapshot(ctx, req.ID)
	if _, ok := again.Results[investigations.SourceNPPES]; !ok {
		t.Error("mutating a snapshot changed runner state")
	}
}

func TestStartErrors(t *testing.T) {
	store := seededStore(t)
	sys := investigations.New(store, newSimulator(), investigations.Config{}, testLogger())
	defer sys.Wait()

	ctx := context.Background()
	if _, err := sys.Start(ctx, uuid.New()); !errors.Is(err, requests.ErrNotFound) {
		t.Errorf("unknown request: got %v", err)
	}
	if _, err := sys.Snapshot(ctx, uuid.New()); !errors.Is(err, investigations.ErrNotFound) {
		t.Errorf("no investigation: got %v", err)
	}
}
