package catboost

import (
	"github.com/lekhraj-d/catboost/linereader"
	"github.com/lekhraj-d/catboost/logger"
)

// PoolBuilder is the sink side of pool ingestion. A DocDataProvider
// drives it single threaded and strictly in order: Start once, then
// for every block StartNextBlock followed by the per document Add
// calls with block local indexes, then SetPairs if there are pairs,
// then Finish. Document numbering across blocks is monotonic; no row
// is revisited.
type PoolBuilder interface {
	// Start declares the shape of the incoming pool. catFeatures
	// holds the feature indexes of the categorical columns.
	Start(schema Schema, docCount int, catFeatures []int)
	// SetFeatureIDs names the feature columns. Called right after
	// Start and only when at least one name is known.
	SetFeatureIDs(ids []string)
	// GenerateDocIDs invents sequential document ids starting at
	// offset. Called right after Start when the schema has no DocId
	// column.
	GenerateDocIDs(offset int)

	StartNextBlock(blockSize int)

	AddTarget(localIdx int, value float32)
	AddWeight(localIdx int, value float32)
	AddQueryID(localIdx int, value GroupID)
	AddSubgroupID(localIdx int, value SubgroupID)
	AddBaseline(localIdx, offset int, value float64)
	AddDocID(localIdx int, value string)
	AddTimestamp(localIdx int, value uint64)

	// GetCatFeatureValue resolves the stored numeric value for a raw
	// categorical token, remembering the token so the original string
	// can be recovered from the hash later.
	GetCatFeatureValue(feature string) float32
	// AddAllFloatFeatures hands over the complete feature vector of
	// one document. Ignored feature slots arrive zeroed.
	AddAllFloatFeatures(localIdx int, features []float32)

	SetPairs(pairs []Pair)

	// Weights exposes the per document weights accumulated so far,
	// used to fold group weights into pair weights.
	Weights() []float32
	DocCount() int
	Finish()
}

// DocDataProvider streams one dataset into a PoolBuilder.
type DocDataProvider interface {
	// Do streams the whole pool into builder and releases the
	// provider's resources.
	Do(builder PoolBuilder) error
	// Schema exposes the column schema resolved at construction.
	Schema() Schema
	// Close abandons a provider without running it.
	Close() error
}

// DocPoolArgs configures a DocDataProvider.
type DocPoolArgs struct {
	// PoolPath locates the dataset; any scheme linereader knows is
	// accepted.
	PoolPath string
	// PairsPath optionally locates a pairwise preference file.
	PairsPath string
	// CdPath optionally locates a column description file. Without
	// one the first column is the label and the rest are numeric
	// features.
	CdPath string
	Format linereader.DsvFormat
	// ClassNames switches target conversion from float parsing to
	// class index lookup.
	ClassNames []string
	// IgnoredFeatures lists feature indexes to drop: their slots stay
	// zero and their tokens are never validated.
	IgnoredFeatures []int
	// BlockSize caps how many lines are read ahead. Zero means the
	// default of 10000.
	BlockSize int

	// CalcGroupID and CalcSubgroupID override the token hashes. Nil
	// means CalcGroupIDFor and CalcSubgroupIDFor.
	CalcGroupID    func(token string) GroupID
	CalcSubgroupID func(token string) SubgroupID

	Log logger.Logger
}

// DefaultBlockSize is how many lines a provider reads ahead when the
// args leave BlockSize zero.
const DefaultBlockSize = 10000
