//go:build unit

package omf

import (
	"bytes"
	"errors"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/libtest"
	"github.com/gostonefire/omflib/omferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

// decoderFor - Returns a decoder positioned at the first record in data
func decoderFor(t *testing.T, data []byte) (*Reader, *FieldDecoder) {
	reader, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err, "new reader")
	header, err := reader.ReadHeader()
	require.NoError(t, err, "read header")

	return reader, NewFieldDecoder(reader, header)
}

func TestFieldDecoder_ReadName(t *testing.T) {
	t.Run("consumes record exactly", func(t *testing.T) {
		// Prepare
		data := libtest.Record(conf.EXTDEF, append(libtest.Name("ABC"), 0))
		reader, fd := decoderFor(t, data)

		// Execute
		name, err := fd.ReadName()
		require.NoError(t, err, "read name")
		index, err := fd.ReadIndex()
		require.NoError(t, err, "read index")
		remaining := fd.Remaining()
		err = fd.Finish()

		// Check
		assert.NoError(t, err, "finished")
		assert.Equal(t, []byte("ABC"), name, "name decoded")
		assert.Equal(t, uint16(0), index, "type index")
		assert.Equal(t, int64(1), remaining, "only checksum left")
		assert.Equal(t, int64(len(data)), reader.Offset(), "positioned at next header")
		_, err = reader.ReadHeader()
		assert.True(t, errors.Is(err, io.EOF), "no more records")
	})

	t.Run("name running past the record is truncated", func(t *testing.T) {
		// Prepare
		data := []byte{conf.EXTDEF, 0x04, 0x00, 0x06, 'A', 'B', 'C', 'D', 'E', 'F', 0x00}
		_, fd := decoderFor(t, data)

		// Execute
		_, err := fd.ReadName()

		// Check
		var tr omferr.TruncatedRecord
		assert.ErrorAs(t, err, &tr, "truncated record")
		assert.Equal(t, "*** EXTDEF ***: unexpected end of records", err.Error())
	})

	t.Run("name reaching into checksum is truncated", func(t *testing.T) {
		// Prepare
		data := []byte{conf.PUBDEF, 0x04, 0x00, 0x03, 'A', 'B', 'C', 0x00}
		_, fd := decoderFor(t, data)

		// Execute
		_, err := fd.ReadName()

		// Check
		var tr omferr.TruncatedRecord
		assert.ErrorAs(t, err, &tr, "truncated record")
	})

	t.Run("empty source is unexpected EOF", func(t *testing.T) {
		// Prepare
		data := []byte{conf.EXTDEF, 0x08, 0x00}
		_, fd := decoderFor(t, data)

		// Execute
		_, err := fd.ReadName()

		// Check
		var eof omferr.UnexpectedEOF
		assert.ErrorAs(t, err, &eof, "unexpected EOF")
	})
}

func TestFieldDecoder_ReadIndex(t *testing.T) {
	t.Run("decodes one and two byte forms", func(t *testing.T) {
		// Prepare
		payload := append(libtest.Index(0x7F), libtest.Index(0x102)...)
		payload = append(payload, libtest.Index(0x7FFF)...)
		_, fd := decoderFor(t, libtest.Record(conf.EXTDEF, payload))
		start := fd.Remaining()

		// Execute
		i1, err1 := fd.ReadIndex()
		afterFirst := fd.Remaining()
		i2, err2 := fd.ReadIndex()
		afterSecond := fd.Remaining()
		i3, err3 := fd.ReadIndex()

		// Check
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.NoError(t, err3)
		assert.Equal(t, uint16(0x7F), i1, "one byte index")
		assert.Equal(t, uint16(0x102), i2, "two byte index")
		assert.Equal(t, uint16(0x7FFF), i3, "largest index")
		assert.Equal(t, start-1, afterFirst, "one byte consumed")
		assert.Equal(t, afterFirst-2, afterSecond, "escape byte counted")
		assert.NoError(t, fd.Finish(), "finished")
	})
}

func TestFieldDecoder_ReadLength(t *testing.T) {
	t.Run("skips escape bytes and returns leading byte", func(t *testing.T) {
		// Prepare
		payload := []byte{
			0x81, 1, 2,
			0x84, 1, 2, 3,
			0x88, 1, 2, 3, 4,
			0x20,
		}
		reader, fd := decoderFor(t, libtest.Record(conf.COMDEF, payload))

		// Execute
		var tags []uint8
		var remaining []int64
		for i := 0; i < 4; i++ {
			tag, err := fd.ReadLength()
			require.NoError(t, err, "read length")
			tags = append(tags, tag)
			remaining = append(remaining, fd.Remaining())
		}
		err := fd.Finish()

		// Check
		assert.NoError(t, err, "finished")
		assert.Equal(t, []uint8{0x81, 0x84, 0x88, 0x20}, tags, "leading bytes")
		assert.Equal(t, []int64{11, 7, 2, 1}, remaining, "escape bytes counted")
		assert.Equal(t, int64(len(payload))+conf.RecordHeaderLength+conf.ChecksumLength, reader.Offset(), "at end")
	})
}

func TestFieldDecoder_Finish(t *testing.T) {
	t.Run("skips unread fields", func(t *testing.T) {
		// Prepare
		first := libtest.Record(conf.PUBDEF, []byte{0x01, 0x01, 0x01, 'A', 0x00, 0x00, 0x00})
		second := libtest.Record(conf.MODEND, []byte{0x00})
		reader, fd := decoderFor(t, append(first, second...))
		_, err := fd.ReadIndex()
		require.NoError(t, err, "group index")

		// Execute
		err = fd.Finish()
		require.NoError(t, err, "finished")
		header, err := reader.ReadHeader()

		// Check
		assert.NoError(t, err, "next header")
		assert.Equal(t, conf.MODEND, header.Type, "at next record")
		assert.Equal(t, int64(0), fd.Remaining(), "budget used up")
	})

	t.Run("overrun budget is truncated", func(t *testing.T) {
		// Prepare
		data := []byte{conf.EXTDEF, 0x01, 0x00, 0x05, 0x00}
		_, fd := decoderFor(t, data)
		_, err := fd.ReadIndex()
		require.NoError(t, err, "index")

		// Execute
		err = fd.Finish()

		// Check
		var tr omferr.TruncatedRecord
		assert.ErrorAs(t, err, &tr, "no room for checksum")
	})

	t.Run("missing checksum is unexpected EOF", func(t *testing.T) {
		// Prepare
		data := []byte{conf.EXTDEF, 0x02, 0x00, 0x00}
		_, fd := decoderFor(t, data)
		_, err := fd.ReadIndex()
		require.NoError(t, err, "index")

		// Execute
		err = fd.Finish()

		// Check
		var eof omferr.UnexpectedEOF
		assert.ErrorAs(t, err, &eof, "checksum absent")
	})
}

func TestKindOf(t *testing.T) {
	t.Run("maps record types to kinds", func(t *testing.T) {
		// Prepare
		tests := map[uint8]RecordKind{
			conf.THEADR:       KindTHEADR,
			conf.COMENT:       KindComment,
			0x89:              KindComment,
			conf.MODEND:       KindModEnd,
			conf.MODEND32:     KindModEnd,
			conf.EXTDEF:       KindExtdef,
			conf.PUBDEF:       KindPubdef,
			conf.PUBDEF32:     KindPubdef32,
			conf.COMDEF:       KindComdef,
			conf.LIBHEADER:    KindLibHeader,
			conf.MARKERRECORD: KindDictMarker,
			0x98:              KindUnknown,
		}

		// Execute and Check
		for recType, kind := range tests {
			assert.Equal(t, kind, KindOf(recType), "kind of %02X", recType)
		}
		assert.Equal(t, "PUBDEF32", KindPubdef32.String())
		assert.Equal(t, "RecordKind(0)", KindUnknown.String())
	})
}
