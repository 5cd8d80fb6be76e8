// Package pool holds a parsed document pool in memory.
//
// A dsv provider streams rows into a Builder; the result is a Pool
// whose storage is laid out per document, so downstream consumers can
// index rows directly.
package pool

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lekhraj-d/catboost"
)

// DocumentStorage is the per-document data of a pool. Every slice is
// indexed by document; Factors and Baseline are row-major.
type DocumentStorage struct {
	Factors    [][]float32
	Target     []float32
	Weight     []float32
	Baseline   [][]float64
	ID         []string
	QueryID    []catboost.GroupID
	SubgroupID []catboost.SubgroupID
	Timestamp  []uint64
}

// DocCount returns the number of documents held.
func (s *DocumentStorage) DocCount() int { return len(s.Target) }

// Resize allocates storage for docCount documents with factorCount
// float factor slots and baselineDim baseline slots each. Weights
// start at 1. QueryID and SubgroupID are only allocated when the pool
// carries those columns.
func (s *DocumentStorage) Resize(docCount, factorCount, baselineDim int, hasQueryID, hasSubgroupID bool) {
	s.Factors = make([][]float32, docCount)
	for i := range s.Factors {
		s.Factors[i] = make([]float32, factorCount)
	}
	s.Target = make([]float32, docCount)
	s.Weight = make([]float32, docCount)
	for i := range s.Weight {
		s.Weight[i] = 1
	}
	s.Baseline = make([][]float64, docCount)
	for i := range s.Baseline {
		s.Baseline[i] = make([]float64, baselineDim)
	}
	s.ID = make([]string, docCount)
	s.QueryID = nil
	if hasQueryID {
		s.QueryID = make([]catboost.GroupID, docCount)
	}
	s.SubgroupID = nil
	if hasSubgroupID {
		s.SubgroupID = make([]catboost.SubgroupID, docCount)
	}
	s.Timestamp = make([]uint64, docCount)
}

// Swap exchanges documents i and j across every column.
func (s *DocumentStorage) Swap(i, j int) {
	s.Factors[i], s.Factors[j] = s.Factors[j], s.Factors[i]
	s.Target[i], s.Target[j] = s.Target[j], s.Target[i]
	s.Weight[i], s.Weight[j] = s.Weight[j], s.Weight[i]
	s.Baseline[i], s.Baseline[j] = s.Baseline[j], s.Baseline[i]
	s.ID[i], s.ID[j] = s.ID[j], s.ID[i]
	if s.QueryID != nil {
		s.QueryID[i], s.QueryID[j] = s.QueryID[j], s.QueryID[i]
	}
	if s.SubgroupID != nil {
		s.SubgroupID[i], s.SubgroupID[j] = s.SubgroupID[j], s.SubgroupID[i]
	}
	s.Timestamp[i], s.Timestamp[j] = s.Timestamp[j], s.Timestamp[i]
}

// Clear drops all documents.
func (s *DocumentStorage) Clear() {
	*s = DocumentStorage{}
}

// Pool is a fully parsed dataset.
type Pool struct {
	Docs                    DocumentStorage
	Pairs                   []catboost.Pair
	CatFeatures             []int
	FeatureID               []string
	CatFeaturesHashToString map[uint32]string
	Schema                  catboost.Schema
}

// CatFeatureString reverses a category hash back to the token it was
// computed from, when that token was seen during parsing.
func (p *Pool) CatFeatureString(hash uint32) (string, bool) {
	s, ok := p.CatFeaturesHashToString[hash]
	return s, ok
}

// FeatureMatrix copies the float factors into a dense matrix with one
// row per document. Returns nil for a pool with no documents or no
// factors.
func (p *Pool) FeatureMatrix() *mat.Dense {
	docCount := p.Docs.DocCount()
	if docCount == 0 || len(p.Docs.Factors[0]) == 0 {
		return nil
	}
	factorCount := len(p.Docs.Factors[0])
	data := make([]float64, 0, docCount*factorCount)
	for _, row := range p.Docs.Factors {
		for _, v := range row {
			data = append(data, float64(v))
		}
	}
	return mat.NewDense(docCount, factorCount, data)
}
