package pool

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a pool's shape and target distribution.
type Summary struct {
	DocCount     int
	FeatureCount int
	CatFeatures  int
	PairCount    int
	TargetMean   float64
	TargetStdDev float64
	TargetMin    float64
	TargetMax    float64
	TotalWeight  float64
}

func (s Summary) String() string {
	return fmt.Sprintf("docs=%d features=%d (cat %d) pairs=%d target[mean=%.4g std=%.4g min=%.4g max=%.4g] weight=%.4g",
		s.DocCount, s.FeatureCount, s.CatFeatures, s.PairCount,
		s.TargetMean, s.TargetStdDev, s.TargetMin, s.TargetMax, s.TotalWeight)
}

// Summarize computes summary statistics over the pool's targets and
// weights.
func (p *Pool) Summarize() Summary {
	s := Summary{
		DocCount:     p.Docs.DocCount(),
		FeatureCount: p.Schema.FeatureCount,
		CatFeatures:  len(p.CatFeatures),
		PairCount:    len(p.Pairs),
	}
	if s.DocCount == 0 {
		return s
	}
	targets := make([]float64, len(p.Docs.Target))
	for i, v := range p.Docs.Target {
		targets[i] = float64(v)
	}
	weights := make([]float64, len(p.Docs.Weight))
	for i, v := range p.Docs.Weight {
		weights[i] = float64(v)
	}
	s.TargetMean, s.TargetStdDev = stat.MeanStdDev(targets, nil)
	if math.IsNaN(s.TargetStdDev) {
		// single document, sample stddev undefined
		s.TargetStdDev = 0
	}
	s.TargetMin = floats.Min(targets)
	s.TargetMax = floats.Max(targets)
	s.TotalWeight = floats.Sum(weights)
	return s
}
