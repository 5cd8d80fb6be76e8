package dsv

import (
	"sync/atomic"

	"github.com/lekhraj-d/catboost"
)

// ProgressTracker tracks how many documents have reached a builder.
type ProgressTracker struct {
	progress uint64
}

// proceed is called after a document's feature vector lands.
func (t *ProgressTracker) proceed() {
	atomic.AddUint64(&t.progress, 1)
}

// Check the number of documents delivered so far.
func (t *ProgressTracker) Check() uint64 {
	return atomic.LoadUint64(&t.progress)
}

type trackedBuilder struct {
	catboost.PoolBuilder
	t *ProgressTracker
}

func (tb *trackedBuilder) AddAllFloatFeatures(localIdx int, features []float32) {
	tb.PoolBuilder.AddAllFloatFeatures(localIdx, features)
	tb.t.proceed()
}

// Track document delivery progress into a builder.
// Wraps the builder with a progress-tracking mechanism.
func (t *ProgressTracker) Track(builder catboost.PoolBuilder) catboost.PoolBuilder {
	return &trackedBuilder{builder, t}
}
