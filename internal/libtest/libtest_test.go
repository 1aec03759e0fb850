//go:build unit

package libtest

import (
	"encoding/binary"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRecord(t *testing.T) {
	t.Run("record sums to zero", func(t *testing.T) {
		// Execute
		rec := Record(conf.THEADR, Name("A"))

		// Check
		assert.Equal(t, []byte{0x80, 0x03, 0x00, 0x01, 'A'}, rec[:5], "header and payload")
		var sum uint8
		for _, b := range rec {
			sum += b
		}
		assert.Zero(t, sum, "checksum")
	})

	t.Run("encodes indexes", func(t *testing.T) {
		assert.Equal(t, []byte{0x7F}, Index(0x7F), "one byte")
		assert.Equal(t, []byte{0x81, 0x23}, Index(0x123), "two bytes")
	})
}

func TestLibrary_Bytes(t *testing.T) {
	t.Run("lays out header, modules and dictionary", func(t *testing.T) {
		// Prepare
		module := NewObject("a.c").Pubdef(1, "_a").ModEnd().Bytes()

		// Execute
		data, positions, err := NewLibrary(16, 3).CaseSensitive().AddModule("A", module, "_a").Bytes()

		// Check
		require.NoError(t, err)
		assert.Equal(t, conf.LIBHEADER, data[0], "library record")
		assert.Equal(t, uint16(13), binary.LittleEndian.Uint16(data[1:]), "page size less header")
		assert.Equal(t, conf.CaseSensitiveFlag, data[9], "flags")
		assert.Equal(t, int64(16), positions["A"], "first module after header page")
		assert.Equal(t, module, data[16:16+len(module)], "module copied")

		dictOffset := int64(binary.LittleEndian.Uint32(data[3:]))
		assert.Zero(t, dictOffset%conf.DictBlockSize, "dictionary alignment")
		assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(data[7:]), "dictionary blocks")
		assert.Equal(t, int(dictOffset+3*conf.DictBlockSize), len(data), "file ends after dictionary")
	})

	t.Run("fails when the dictionary can not hold every entry", func(t *testing.T) {
		// Prepare
		lib := NewLibrary(16, 1)
		for i := 0; i < int(conf.NumBuckets); i++ {
			lib.AddModule(string(rune('A'+i%26))+string(rune('A'+i/26)), NewObject("m.c").ModEnd().Bytes())
		}

		// Execute
		_, _, err := lib.Bytes()

		// Check
		assert.NoError(t, err, "37 module entries fill the block exactly")

		lib.AddModule("ZZZ", NewObject("z.c").ModEnd().Bytes())
		_, _, err = lib.Bytes()
		assert.Error(t, err, "38th entry has no bucket")
	})
}
