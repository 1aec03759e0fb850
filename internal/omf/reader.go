package omf

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/omferr"
	"io"
)

// Reader - Sequential reader of OMF records over a seekable source.
// It keeps track of the absolute file offset so that callers can report positions and seek back.
// A Reader must be the only user of its source.
type Reader struct {
	src    io.ReadSeeker
	buf    *bufio.Reader
	offset int64
}

// NewReader - Returns a pointer to a new Reader positioned at the source's current offset
func NewReader(src io.ReadSeeker) (reader *Reader, err error) {
	offset, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		err = omferr.NewSeekFailure("unable to get current file position: %s", err)
		return
	}

	reader = &Reader{
		src:    src,
		buf:    bufio.NewReader(src),
		offset: offset,
	}

	return
}

// Offset - Returns the absolute file offset of the next byte to be read
func (R *Reader) Offset() int64 {
	return R.offset
}

// Seek - Positions the reader at an absolute file offset
func (R *Reader) Seek(offset int64) (err error) {
	_, err = R.src.Seek(offset, io.SeekStart)
	if err != nil {
		err = omferr.NewSeekFailure("seek to file position %d failed: %s", offset, err)
		return
	}

	R.buf.Reset(R.src)
	R.offset = offset

	return
}

// ReadHeader - Reads the 3 byte record header at the current offset.
// It returns io.EOF if the source ends exactly at the header, and UnexpectedEOF if it ends inside it.
func (R *Reader) ReadHeader() (header model.RecordHeader, err error) {
	buf := make([]byte, conf.RecordHeaderLength)
	n, err := io.ReadFull(R.buf, buf)
	R.offset += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = omferr.NewUnexpectedEOF("unexpected EOF in record header at %d", R.offset-int64(n))
			return
		}
		err = fmt.Errorf("error while reading record header: %w", err)
		return
	}

	header = bytesToRecordHeader(buf)

	return
}

// ReadByte - Reads one byte
func (R *Reader) ReadByte() (b byte, err error) {
	b, err = R.buf.ReadByte()
	if err != nil {
		err = R.eofError(err, "byte")
		return
	}
	R.offset++

	return
}

// ReadFull - Fills buf completely
func (R *Reader) ReadFull(buf []byte) (err error) {
	n, err := io.ReadFull(R.buf, buf)
	R.offset += int64(n)
	if err != nil {
		err = R.eofError(err, fmt.Sprintf("%d bytes", len(buf)))
	}

	return
}

// Skip - Advances the reader n bytes without interpreting them
func (R *Reader) Skip(n int64) (err error) {
	if n <= 0 {
		return
	}

	d, err := R.buf.Discard(int(n))
	R.offset += int64(d)
	if err != nil {
		err = R.eofError(err, fmt.Sprintf("skip of %d bytes", n))
	}

	return
}

// ReadChecksum - Consumes the checksum byte that ends every record
func (R *Reader) ReadChecksum(recType uint8) (err error) {
	_, err = R.buf.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = omferr.NewUnexpectedEOF("unexpected EOF in RECTYP %02XH", recType)
			return
		}
		err = fmt.Errorf("error while reading checksum of RECTYP %02XH: %w", recType, err)
		return
	}
	R.offset++

	return
}

// CopyN - Copies exactly n bytes from the reader to dst
func (R *Reader) CopyN(dst io.Writer, n int64) (err error) {
	c, err := io.CopyN(dst, R.buf, n)
	R.offset += c
	if err != nil {
		err = R.eofError(err, fmt.Sprintf("copy of %d bytes", n))
	}

	return
}

// eofError - Maps end of file conditions to UnexpectedEOF and wraps anything else
func (R *Reader) eofError(err error, what string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return omferr.NewUnexpectedEOF("unexpected EOF reading %s at %d", what, R.offset)
	}

	return fmt.Errorf("error while reading %s at %d: %w", what, R.offset, err)
}
