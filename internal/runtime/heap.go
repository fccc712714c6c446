package runtime

import (
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
)

// Traceable is a heap object the GC can enumerate and reclaim (spec.md
// §4.C). Environment, Class, UserFunction, NativeFunction, BoundMethod,
// Instance, and List all implement it. Scalars (Nil, Bool, Number, String)
// deliberately do not participate in the heap: spec.md §3 permits but does
// not require them to be heap-allocated, and they carry no outgoing edges
// to enumerate, so tracking them would only add bookkeeping without ever
// changing what collect() reclaims.
type Traceable interface {
	header() *gcHeader
	enumerateChildren() []Traceable
	reclaim()
}

// gcHeader is embedded by every heap-allocated type. It carries the bit the
// mark phase flips and a debug id, which is also the object's registry key
// (spec.md §4 DOMAIN: grounded on funvibe-funxy's google/uuid dependency —
// without a stable id, two List instances reclaimed and reallocated at the
// same Go pointer would be indistinguishable by address alone).
type gcHeader struct {
	id        uuid.UUID
	reachable bool
}

// ID returns the object's debug handle.
func (h *gcHeader) ID() uuid.UUID { return h.id }

// MetricsRecorder receives GC observations. Defined here (not imported from
// internal/metrics) to keep the heap's correctness independent of whether
// metrics are enabled; see internal/metrics.Recorder for the concrete
// Prometheus-backed implementation (spec.md §4 DOMAIN).
type MetricsRecorder interface {
	RecordCollection(live, reclaimed int)
}

// Heap owns every traceable object (spec.md §4.C). It is non-moving:
// handles (Go pointers) stay valid across collections, required because the
// AST holds no indirection through the heap and is never updated to match a
// moved object.
type Heap struct {
	registry *swiss.Map[uuid.UUID, Traceable]
	metrics  MetricsRecorder
}

// NewHeap creates an empty heap. recorder may be nil, in which case
// Collect runs with no metrics side effect — every test that exercises GC
// correctness passes nil.
func NewHeap(recorder MetricsRecorder) *Heap {
	return &Heap{
		registry: swiss.NewMap[uuid.UUID, Traceable](64),
		metrics:  recorder,
	}
}

// Allocate registers obj in the heap's weak registry immediately, spec.md
// §4.C's allocate contract. Allocation cannot fail except by host memory
// exhaustion, a fatal condition this method does not attempt to catch.
func Allocate[T Traceable](h *Heap, obj T) T {
	hdr := obj.header()
	hdr.id = uuid.New()
	h.registry.Put(hdr.id, obj)
	return obj
}

// LiveCount returns the number of objects currently in the weak registry.
// Used by tests to assert convergence to a baseline (spec.md §8 scenario f).
func (h *Heap) LiveCount() int {
	return h.registry.Count()
}

// Collect runs one full mark-and-sweep pass from roots, spec.md §4.C's
// five-step algorithm, and returns the number of objects reclaimed.
func (h *Heap) Collect(roots []Traceable) int {
	// 1. Snapshot: promote every still-live registry entry.
	snapshot := make([]Traceable, 0, h.registry.Count())
	h.registry.Iter(func(_ uuid.UUID, obj Traceable) bool {
		snapshot = append(snapshot, obj)
		return true
	})

	// 2. Unmark.
	for _, obj := range snapshot {
		obj.header().reachable = false
	}

	// 3. Mark, starting from the pinned roots. The reachable flag makes
	// this safe against cycles: an object already marked is never
	// revisited, so a closure whose environment contains the function
	// whose closure is that same environment terminates in one pass.
	var mark func(Traceable)
	mark = func(obj Traceable) {
		if obj == nil {
			return
		}
		hdr := obj.header()
		if hdr.reachable {
			return
		}
		hdr.reachable = true
		for _, child := range obj.enumerateChildren() {
			mark(child)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	// 4. Sweep: reclaim() severs outgoing edges before the strong handle is
	// dropped, so cycles break without needing a topological order.
	reclaimed := 0
	for _, obj := range snapshot {
		if !obj.header().reachable {
			obj.reclaim()
			h.registry.Delete(obj.header().id)
			reclaimed++
		}
	}

	// 5. Repack happens implicitly: swiss.Map.Delete already removed the
	// dead entries, so the registry is live-only going into the next pass.

	if h.metrics != nil {
		h.metrics.RecordCollection(h.registry.Count(), reclaimed)
	}

	return reclaimed
}
