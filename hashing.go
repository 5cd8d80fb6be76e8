package catboost

import (
	"math"

	"github.com/cespare/xxhash"
)

// GroupID identifies the group a document belongs to.
type GroupID uint64

// SubgroupID identifies a subgroup within a group.
type SubgroupID uint32

// CalcGroupIDFor hashes a raw group token into a stable id.
func CalcGroupIDFor(token string) GroupID {
	return GroupID(xxhash.Sum64String(token))
}

// CalcSubgroupIDFor hashes a raw subgroup token into a stable id.
func CalcSubgroupIDFor(token string) SubgroupID {
	return SubgroupID(xxhash.Sum64String(token))
}

// CalcCatFeatureHash hashes a raw categorical value into the 32-bit id
// kept alongside the pool for recovering the original string.
func CalcCatFeatureHash(feature string) uint32 {
	return uint32(xxhash.Sum64String(feature))
}

// ConvertCatFeatureHashToFloat reinterprets a categorical hash as the
// float32 stored in the feature matrix. The bits are preserved, not
// the numeric value.
func ConvertCatFeatureHashToFloat(hash uint32) float32 {
	return math.Float32frombits(hash)
}

// ConvertFloatCatFeatureToIntHash recovers the categorical hash from a
// stored feature value.
func ConvertFloatCatFeatureToIntHash(feature float32) uint32 {
	return math.Float32bits(feature)
}
