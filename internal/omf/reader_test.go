//go:build unit

package omf

import (
	"bytes"
	"errors"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/libtest"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/omferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestReader_ReadHeader(t *testing.T) {
	t.Run("reads record header and tracks offset", func(t *testing.T) {
		// Prepare
		data := libtest.Record(conf.EXTDEF, append(libtest.Name("ABC"), 0))
		reader, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err, "new reader")

		// Execute
		header, err := reader.ReadHeader()

		// Check
		assert.NoError(t, err, "header read")
		assert.Equal(t, model.RecordHeader{Type: conf.EXTDEF, Length: 6}, header, "header decoded")
		assert.Equal(t, conf.RecordHeaderLength, reader.Offset(), "offset after header")
	})

	t.Run("returns io.EOF at a record boundary", func(t *testing.T) {
		// Prepare
		reader, err := NewReader(bytes.NewReader(nil))
		require.NoError(t, err, "new reader")

		// Execute
		_, err = reader.ReadHeader()

		// Check
		assert.True(t, errors.Is(err, io.EOF), "clean end of file")
	})

	t.Run("returns UnexpectedEOF inside a header", func(t *testing.T) {
		// Prepare
		reader, err := NewReader(bytes.NewReader([]byte{conf.PUBDEF, 0x10}))
		require.NoError(t, err, "new reader")

		// Execute
		_, err = reader.ReadHeader()

		// Check
		var eof omferr.UnexpectedEOF
		assert.ErrorAs(t, err, &eof, "partial header is unexpected EOF")
	})

	t.Run("starts at the source's current offset", func(t *testing.T) {
		// Prepare
		data := append([]byte{0xAA, 0xBB}, libtest.Record(conf.MODEND, []byte{0})...)
		src := bytes.NewReader(data)
		_, err := src.Seek(2, io.SeekStart)
		require.NoError(t, err, "seek source")

		// Execute
		reader, err := NewReader(src)
		require.NoError(t, err, "new reader")
		header, err := reader.ReadHeader()

		// Check
		assert.NoError(t, err, "header read")
		assert.Equal(t, conf.MODEND, header.Type, "MODEND found")
		assert.Equal(t, int64(5), reader.Offset(), "absolute offset")
	})
}

func TestReader_Seek(t *testing.T) {
	t.Run("discards buffered data", func(t *testing.T) {
		// Prepare
		first := libtest.Record(conf.THEADR, libtest.Name("a.c"))
		second := libtest.Record(conf.MODEND, []byte{0})
		reader, err := NewReader(bytes.NewReader(append(first, second...)))
		require.NoError(t, err, "new reader")
		_, err = reader.ReadHeader()
		require.NoError(t, err, "read first header")

		// Execute
		err = reader.Seek(int64(len(first)))
		require.NoError(t, err, "seek")
		header, err := reader.ReadHeader()

		// Check
		assert.NoError(t, err, "header read")
		assert.Equal(t, conf.MODEND, header.Type, "second record")
		assert.Equal(t, int64(len(first))+conf.RecordHeaderLength, reader.Offset(), "offset follows seek")
	})

	t.Run("maps failing seek to SeekFailure", func(t *testing.T) {
		// Prepare
		reader, err := NewReader(bytes.NewReader(nil))
		require.NoError(t, err, "new reader")

		// Execute
		err = reader.Seek(-1)

		// Check
		var sf omferr.SeekFailure
		assert.ErrorAs(t, err, &sf, "negative position fails")
	})
}

func TestReader_ReadChecksum(t *testing.T) {
	t.Run("missing checksum is unexpected EOF", func(t *testing.T) {
		// Prepare
		reader, err := NewReader(bytes.NewReader(nil))
		require.NoError(t, err, "new reader")

		// Execute
		err = reader.ReadChecksum(conf.EXTDEF)

		// Check
		var eof omferr.UnexpectedEOF
		assert.ErrorAs(t, err, &eof, "unexpected EOF")
		assert.Equal(t, "unexpected EOF in RECTYP 8CH", err.Error(), "message names the record type")
	})
}

func TestReader_CopyN(t *testing.T) {
	t.Run("copies exact byte count", func(t *testing.T) {
		// Prepare
		data := []byte{1, 2, 3, 4, 5}
		reader, err := NewReader(bytes.NewReader(data))
		require.NoError(t, err, "new reader")
		var dst bytes.Buffer

		// Execute
		err = reader.CopyN(&dst, 3)

		// Check
		assert.NoError(t, err, "copied")
		assert.Equal(t, []byte{1, 2, 3}, dst.Bytes(), "first three bytes")
		assert.Equal(t, int64(3), reader.Offset(), "offset advanced")
	})

	t.Run("short source is unexpected EOF", func(t *testing.T) {
		// Prepare
		reader, err := NewReader(bytes.NewReader([]byte{1, 2}))
		require.NoError(t, err, "new reader")

		// Execute
		err = reader.CopyN(io.Discard, 3)

		// Check
		var eof omferr.UnexpectedEOF
		assert.ErrorAs(t, err, &eof, "unexpected EOF")
	})
}

func TestRecordHeaderToBytes(t *testing.T) {
	t.Run("converts header back and forth", func(t *testing.T) {
		// Prepare
		header := model.RecordHeader{Type: conf.PUBDEF32, Length: 0x1234}

		// Execute
		buf := RecordHeaderToBytes(header)

		// Check
		assert.Equal(t, []byte{0x91, 0x34, 0x12}, buf, "little endian length")
		assert.Equal(t, header, bytesToRecordHeader(buf), "decodes to same header")
	})
}
