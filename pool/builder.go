package pool

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lekhraj-d/catboost"
	"github.com/lekhraj-d/catboost/logger"
)

// Builder accumulates rows streamed by a data provider into a Pool.
// It implements catboost.PoolBuilder. Documents land at block base
// plus in-block index, so providers can hand over blocks of any size
// as long as they arrive in order.
type Builder struct {
	pool     *Pool
	log      logger.Logger
	base     int
	blockLen int
	started  bool
	finished bool
}

// NewBuilder returns a Builder logging through log. A nil log falls
// back to the nop logger.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.NopLogger
	}
	return &Builder{log: log}
}

// Start allocates the pool. A Builder builds exactly one pool;
// starting it twice panics.
func (b *Builder) Start(schema catboost.Schema, docCount int, catFeatures []int) {
	if b.started {
		panic("pool builder started twice")
	}
	b.started = true
	b.pool = &Pool{
		CatFeatures:             catFeatures,
		CatFeaturesHashToString: make(map[uint32]string),
		Schema:                  schema,
	}
	b.pool.Docs.Resize(docCount, schema.FeatureCount, schema.BaselineCount,
		schema.HasGroupIDs, schema.HasSubgroupIDs)
}

// SetFeatureIDs records the per-factor names.
func (b *Builder) SetFeatureIDs(ids []string) { b.pool.FeatureID = ids }

// GenerateDocIDs fills document ids with their global position offset
// by offset, for pools that carry no DocId column.
func (b *Builder) GenerateDocIDs(offset int) {
	for i := range b.pool.Docs.ID {
		b.pool.Docs.ID[i] = strconv.Itoa(offset + i)
	}
}

// StartNextBlock moves the write cursor past the previous block and
// declares the size of the next one.
func (b *Builder) StartNextBlock(blockSize int) {
	b.base += b.blockLen
	b.blockLen = blockSize
}

func (b *Builder) docIndex(localIdx int) int {
	if localIdx < 0 || localIdx >= b.blockLen {
		panic(fmt.Sprintf("row index %d outside current block of %d", localIdx, b.blockLen))
	}
	return b.base + localIdx
}

func (b *Builder) AddTarget(localIdx int, value float32) {
	b.pool.Docs.Target[b.docIndex(localIdx)] = value
}

func (b *Builder) AddWeight(localIdx int, value float32) {
	b.pool.Docs.Weight[b.docIndex(localIdx)] = value
}

func (b *Builder) AddQueryID(localIdx int, id catboost.GroupID) {
	b.pool.Docs.QueryID[b.docIndex(localIdx)] = id
}

func (b *Builder) AddSubgroupID(localIdx int, id catboost.SubgroupID) {
	b.pool.Docs.SubgroupID[b.docIndex(localIdx)] = id
}

func (b *Builder) AddBaseline(localIdx, slot int, value float64) {
	b.pool.Docs.Baseline[b.docIndex(localIdx)][slot] = value
}

func (b *Builder) AddDocID(localIdx int, id string) {
	b.pool.Docs.ID[b.docIndex(localIdx)] = id
}

func (b *Builder) AddTimestamp(localIdx int, ts uint64) {
	b.pool.Docs.Timestamp[b.docIndex(localIdx)] = ts
}

// GetCatFeatureValue hashes a category token, remembers the reverse
// mapping, and returns the hash bits as a float32 factor value.
func (b *Builder) GetCatFeatureValue(token string) float32 {
	hash := catboost.CalcCatFeatureHash(token)
	if _, ok := b.pool.CatFeaturesHashToString[hash]; !ok {
		b.pool.CatFeaturesHashToString[hash] = token
	}
	return catboost.ConvertCatFeatureHashToFloat(hash)
}

// AddAllFloatFeatures copies a document's full factor row into place.
func (b *Builder) AddAllFloatFeatures(localIdx int, factors []float32) {
	copy(b.pool.Docs.Factors[b.docIndex(localIdx)], factors)
}

// SetPairs records the document preference pairs.
func (b *Builder) SetPairs(pairs []catboost.Pair) { b.pool.Pairs = pairs }

// Weights exposes the per-document weights accumulated so far.
func (b *Builder) Weights() []float32 { return b.pool.Docs.Weight }

// DocCount returns the declared document count.
func (b *Builder) DocCount() int { return b.pool.Docs.DocCount() }

// Finish marks the pool complete.
func (b *Builder) Finish() {
	b.finished = true
	if n := b.pool.Docs.DocCount(); n != 0 {
		b.log.Infof("Doc info size %d.", n)
	} else {
		b.log.Errorf("No doc info loaded")
	}
}

// Pool returns the built pool. It errors until Finish has run.
func (b *Builder) Pool() (*Pool, error) {
	if !b.finished {
		return nil, errors.New("pool builder is not finished")
	}
	return b.pool, nil
}
