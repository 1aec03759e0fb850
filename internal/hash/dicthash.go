package hash

import (
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/conf"
	"math/bits"
)

// primes - The number of blocks in a symbol dictionary is supposed to be a prime <= 251
var primes = []int64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47,
	53, 59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113,
	127, 131, 137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197,
	199, 211, 223, 227, 229, 233, 239, 241, 251,
}

// DictionaryHashAlgorithm - The symbol dictionary hash of OMF libraries. It walks the length prefixed symbol forward
// and backward at the same time, producing block and bucket hashes together with their rehash deltas.
// Hashing is case-insensitive.
type DictionaryHashAlgorithm struct {
	tableSize int64
}

// NewDictionaryHashAlgorithm - Returns a pointer to a new DictionaryHashAlgorithm instance
func NewDictionaryHashAlgorithm(numBlocks int64) *DictionaryHashAlgorithm {
	ha := &DictionaryHashAlgorithm{}
	ha.SetTableSize(numBlocks)
	return ha
}

// SetTableSize - Sets the number of dictionary blocks.
// Unlike a hash table we create ourselves, the block count is given by the library file and is taken as is.
//   - numBlocks is the number of symbol dictionary blocks
func (D *DictionaryHashAlgorithm) SetTableSize(numBlocks int64) {
	D.tableSize = numBlocks
}

// GetTableSize - Returns the number of dictionary blocks
func (D *DictionaryHashAlgorithm) GetTableSize() int64 {
	return D.tableSize
}

// Hash - Returns the probe values for symbol.
// The symbol is hashed in its length prefixed form: the forward walk starts at the length byte and the backward walk at
// the last character, each covering len(symbol) bytes. Every byte is ORed with 0x20 first.
func (D *DictionaryHashAlgorithm) Hash(symbol []byte) (probe hashfunc.Probe) {
	symLength := len(symbol)

	prefixed := make([]byte, 0, symLength+1)
	prefixed = append(prefixed, uint8(symLength))
	prefixed = append(prefixed, symbol...)

	var blockH, blockD, bucketH, bucketD uint16
	fwd, bwd := 0, symLength
	for i := 0; i < symLength; i++ {
		fwdC := uint16(prefixed[fwd] | 0x20)
		bwdC := uint16(prefixed[bwd] | 0x20)
		fwd++
		bwd--

		blockH = fwdC ^ bits.RotateLeft16(blockH, 2)
		blockD = bwdC ^ bits.RotateLeft16(blockD, 2)
		bucketH = bwdC ^ bits.RotateLeft16(bucketH, -2)
		bucketD = fwdC ^ bits.RotateLeft16(bucketD, -2)
	}

	probe = hashfunc.Probe{
		BlockHash:      int64(blockH) % D.tableSize,
		BlockOverflow:  max(int64(blockD)%D.tableSize, 1),
		BucketHash:     int64(bucketH) % conf.NumBuckets,
		BucketOverflow: max(int64(bucketD)%conf.NumBuckets, 1),
	}

	return
}

// IsPrimeBlockCount - Returns true if numBlocks is one of the dictionary sizes a librarian would choose
func IsPrimeBlockCount(numBlocks int64) bool {
	for _, p := range primes {
		if p == numBlocks {
			return true
		}
		if p > numBlocks {
			break
		}
	}

	return false
}

// NextPrimeBlockCount - Returns the smallest dictionary size in the prime table that is at least numBlocks,
// or 0 if numBlocks is above the largest one
func NextPrimeBlockCount(numBlocks int64) int64 {
	for _, p := range primes {
		if p >= numBlocks {
			return p
		}
	}

	return 0
}
