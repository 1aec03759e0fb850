//go:build unit

package hash

import (
	"fmt"
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/stretchr/testify/assert"
	"math/rand"
	"testing"
)

func TestDictionaryHashAlgorithm_Hash(t *testing.T) {
	t.Run("produces known probe values", func(t *testing.T) {
		// Prepare
		tests := []struct {
			symbol    string
			numBlocks int64
			probe     hashfunc.Probe
		}{
			{symbol: "ADD", numBlocks: 2, probe: hashfunc.Probe{BlockHash: 0, BlockOverflow: 1, BucketHash: 8, BucketOverflow: 12}},
			{symbol: "ADD!", numBlocks: 2, probe: hashfunc.Probe{BlockHash: 0, BlockOverflow: 1, BucketHash: 19, BucketOverflow: 35}},
			{symbol: "_main", numBlocks: 7, probe: hashfunc.Probe{BlockHash: 0, BlockOverflow: 6, BucketHash: 7, BucketOverflow: 10}},
			{symbol: "X", numBlocks: 1, probe: hashfunc.Probe{BlockHash: 0, BlockOverflow: 1, BucketHash: 9, BucketOverflow: 33}},
			{symbol: "hello_world", numBlocks: 251, probe: hashfunc.Probe{BlockHash: 132, BlockOverflow: 192, BucketHash: 3, BucketOverflow: 27}},
		}

		for _, test := range tests {
			t.Run(fmt.Sprintf("hashes %s over %d blocks", test.symbol, test.numBlocks), func(t *testing.T) {
				// Prepare
				h := NewDictionaryHashAlgorithm(test.numBlocks)

				// Execute
				probe := h.Hash([]byte(test.symbol))

				// Check
				assert.Equal(t, test.probe, probe, "correct probe values")
			})
		}
	})

	t.Run("is deterministic and case-insensitive", func(t *testing.T) {
		// Prepare
		h := NewDictionaryHashAlgorithm(37)

		// Execute
		p1 := h.Hash([]byte("Foo"))
		p2 := h.Hash([]byte("foo"))
		p3 := h.Hash([]byte("FOO"))
		p4 := h.Hash([]byte("Foo"))

		// Check
		assert.Equal(t, p1, p2, "Foo and foo hash alike")
		assert.Equal(t, p1, p3, "Foo and FOO hash alike")
		assert.Equal(t, p1, p4, "repeated calls hash alike")
	})

	t.Run("overflow deltas are never zero and values stay in range", func(t *testing.T) {
		// Prepare
		rnd := rand.New(rand.NewSource(42))
		name := make([]byte, 64)

		// Execute and Check
		for i := 0; i < 5000; i++ {
			numBlocks := int64(1 + rnd.Intn(int(conf.MaxDictBlocks)))
			n := 1 + rnd.Intn(len(name))
			for j := 0; j < n; j++ {
				name[j] = byte(rnd.Intn(256))
			}

			h := NewDictionaryHashAlgorithm(numBlocks)
			probe := h.Hash(name[:n])

			if probe.BlockOverflow < 1 || probe.BucketOverflow < 1 {
				assert.Fail(t, "zero delta", "name %x blocks %d gave %+v", name[:n], numBlocks, probe)
			}
			if probe.BlockHash < 0 || probe.BlockHash >= numBlocks || probe.BucketHash < 0 || probe.BucketHash >= conf.NumBuckets {
				assert.Fail(t, "out of range", "name %x blocks %d gave %+v", name[:n], numBlocks, probe)
			}
			if probe.BlockOverflow >= numBlocks && numBlocks > 1 {
				assert.Fail(t, "block delta out of range", "name %x blocks %d gave %+v", name[:n], numBlocks, probe)
			}
		}
	})
}

func TestDictionaryHashAlgorithm_SetTableSize(t *testing.T) {
	t.Run("takes the table size as is", func(t *testing.T) {
		// Prepare
		h := NewDictionaryHashAlgorithm(2)

		// Execute
		h.SetTableSize(10)

		// Check
		assert.Equal(t, int64(10), h.GetTableSize(), "no rounding to prime")
	})
}

func TestProbe_Iteration(t *testing.T) {
	t.Run("walks the rehash sequence", func(t *testing.T) {
		// Prepare
		probe := hashfunc.Probe{BlockHash: 1, BlockOverflow: 2, BucketHash: 30, BucketOverflow: 10}

		// Execute
		b0, k0 := probe.Iteration(3, 0)
		b1, k1 := probe.Iteration(3, 1)
		b2, k2 := probe.Iteration(3, 2)

		// Check
		assert.Equal(t, []int64{1, 30}, []int64{b0, k0}, "home position")
		assert.Equal(t, []int64{0, 3}, []int64{b1, k1}, "first rehash wraps both")
		assert.Equal(t, []int64{2, 13}, []int64{b2, k2}, "second rehash")
	})
}

func TestIsPrimeBlockCount(t *testing.T) {
	t.Run("recognizes dictionary sizes", func(t *testing.T) {
		// Check
		assert.True(t, IsPrimeBlockCount(2))
		assert.True(t, IsPrimeBlockCount(251))
		assert.False(t, IsPrimeBlockCount(1))
		assert.False(t, IsPrimeBlockCount(4))
		assert.False(t, IsPrimeBlockCount(253))
	})

	t.Run("finds next dictionary size", func(t *testing.T) {
		// Check
		assert.Equal(t, int64(2), NextPrimeBlockCount(1))
		assert.Equal(t, int64(11), NextPrimeBlockCount(8))
		assert.Equal(t, int64(251), NextPrimeBlockCount(251))
		assert.Equal(t, int64(0), NextPrimeBlockCount(252))
	})
}
