package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/internal/runtime"
)

// TestCollectReclaimsUnreachable covers spec.md §4.C's mark-and-sweep
// contract: an environment not reachable from the given roots is reclaimed,
// one still reachable survives.
func TestCollectReclaimsUnreachable(t *testing.T) {
	heap := runtime.NewHeap(nil)

	root := runtime.Allocate(heap, runtime.NewEnvironment())
	root.Define("kept", runtime.TheNil)

	orphan := runtime.Allocate(heap, runtime.NewEnvironment())
	orphan.Define("discarded", runtime.TheNil)

	require.Equal(t, 2, heap.LiveCount())

	reclaimed := heap.Collect([]runtime.Traceable{root})
	require.Equal(t, 1, reclaimed)
	require.Equal(t, 1, heap.LiveCount())
}

// TestCollectSurvivesCycles is spec.md §8's closure-over-environment cycle
// guard: an environment chain that refers back to itself through a
// captured UserFunction must not make Collect loop forever, and must still
// reclaim the whole cycle once it is unreachable.
func TestCollectSurvivesCycles(t *testing.T) {
	heap := runtime.NewHeap(nil)

	outer := runtime.Allocate(heap, runtime.NewEnvironment())
	fn := runtime.Allocate(heap, runtime.NewUserFunction("loop", nil, nil, outer, false))
	outer.Define("self", fn)

	require.Equal(t, 2, heap.LiveCount())

	// Reachable from outer as root: both survive.
	reclaimed := heap.Collect([]runtime.Traceable{outer})
	require.Equal(t, 0, reclaimed)
	require.Equal(t, 2, heap.LiveCount())

	// No roots at all: the cycle is collected in one pass, not looped
	// over forever.
	reclaimed = heap.Collect(nil)
	require.Equal(t, 2, reclaimed)
	require.Equal(t, 0, heap.LiveCount())
}

type fakeMetrics struct {
	lastLive, lastReclaimed int
	calls                   int
}

func (f *fakeMetrics) RecordCollection(live, reclaimed int) {
	f.calls++
	f.lastLive = live
	f.lastReclaimed = reclaimed
}

// TestCollectReportsMetrics covers the optional MetricsRecorder hook: when
// one is wired in, every Collect call reports the resulting live/reclaimed
// counts. The nil-recorder case (constructor contract noted on NewHeap) is
// exercised by the other tests in this file.
func TestCollectReportsMetrics(t *testing.T) {
	rec := &fakeMetrics{}
	heap := runtime.NewHeap(rec)

	runtime.Allocate(heap, runtime.NewEnvironment())
	heap.Collect(nil)

	require.Equal(t, 1, rec.calls)
	require.Equal(t, 0, rec.lastLive)
	require.Equal(t, 1, rec.lastReclaimed)
}
