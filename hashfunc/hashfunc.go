package hashfunc

import "github.com/gostonefire/omflib/internal/conf"

// Probe - Hash values of one symbol.
//   - BlockHash is the first block to look in
//   - BlockOverflow is the block rehash delta, never 0
//   - BucketHash is the first bucket to look in
//   - BucketOverflow is the bucket rehash delta, never 0
type Probe struct {
	BlockHash      int64
	BlockOverflow  int64
	BucketHash     int64
	BucketOverflow int64
}

// Iteration - Returns block and bucket to look in at the given probe iteration, where iteration 0 is the home position.
//   - numBlocks is the number of dictionary blocks
//   - iteration is the zero based probe count
func (P Probe) Iteration(numBlocks, iteration int64) (block, bucket int64) {
	block = (P.BlockHash + iteration*P.BlockOverflow) % numBlocks
	bucket = (P.BucketHash + iteration*P.BucketOverflow) % conf.NumBuckets
	return
}

// HashAlgorithm - Interface that permits replacing the symbol dictionary hash, mainly to provoke collisions in tests
// or to read dictionaries written by tools that deviate from the standard hash.
type HashAlgorithm interface {
	// SetTableSize - Sets the number of dictionary blocks to hash over.
	// It is called when a library header has been read, so any table size the instance already has is overwritten.
	//   - numBlocks is the number of symbol dictionary blocks
	SetTableSize(numBlocks int64)

	// GetTableSize - Returns the number of dictionary blocks the hash values are computed for
	GetTableSize() int64

	// Hash - Returns the probe values for a symbol.
	// BlockHash must be in [0, table size), BucketHash in [0, 37), and both overflow deltas at least 1.
	// Values outside those ranges result in an error down stream.
	Hash(symbol []byte) Probe
}
