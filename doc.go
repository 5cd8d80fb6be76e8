// Package catboost holds the shared vocabulary of training-pool
// ingestion: the column schema model, the provider and sink contracts,
// pairwise preference records, and the hash functions that turn raw
// group and categorical tokens into stable numeric ids.
//
// The moving parts live in subpackages: linereader reads delimited
// files from local or remote storage, cd parses column description
// files, dsv streams a delimited pool into any PoolBuilder, pool keeps
// the result in memory, and load ties it all together behind a format
// registry.
package catboost
