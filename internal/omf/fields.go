package omf

import (
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/omferr"
)

// FieldDecoder - Decodes the variable length fields of one record and keeps its remaining byte budget.
// The budget starts at the record header's length, so it includes the trailing checksum byte.
type FieldDecoder struct {
	reader    *Reader
	recType   uint8
	remaining int64
}

// NewFieldDecoder - Returns a decoder for the record whose header was just read from reader
func NewFieldDecoder(reader *Reader, header model.RecordHeader) *FieldDecoder {
	return &FieldDecoder{
		reader:    reader,
		recType:   header.Type,
		remaining: int64(header.Length),
	}
}

// Remaining - Returns the number of bytes left in the record, checksum included
func (F *FieldDecoder) Remaining() int64 {
	return F.remaining
}

// ReadName - Reads a length prefixed name.
// A name that reaches into the checksum byte means the record boundary can't be trusted and gives TruncatedRecord.
func (F *FieldDecoder) ReadName() (name []byte, err error) {
	length, err := F.reader.ReadByte()
	if err != nil {
		return
	}
	F.remaining--

	F.remaining -= int64(length)
	if F.remaining <= 0 {
		err = omferr.NewTruncatedRecord("*** %s ***: unexpected end of records", KindOf(F.recType))
		return
	}

	name = make([]byte, length)
	err = F.reader.ReadFull(name)

	return
}

// ReadIndex - Reads an index, one byte or two if the high bit of the first is set
func (F *FieldDecoder) ReadIndex() (index uint16, err error) {
	b, err := F.reader.ReadByte()
	if err != nil {
		return
	}
	F.remaining--

	if b&0x80 == 0 {
		index = uint16(b)
		return
	}

	low, err := F.reader.ReadByte()
	if err != nil {
		return
	}
	F.remaining--

	index = uint16(b&0x7F)<<8 | uint16(low)

	return
}

// ReadNumber - Skips a fixed two byte numeric field
func (F *FieldDecoder) ReadNumber() (err error) {
	return F.Skip(2)
}

// ReadLength - Reads a communal length field and returns its leading byte.
// The escape codes 81h, 84h and 88h are followed by 2, 3 and 4 further bytes.
func (F *FieldDecoder) ReadLength() (tag uint8, err error) {
	tag, err = F.reader.ReadByte()
	if err != nil {
		return
	}
	F.remaining--

	var extra int64
	switch tag {
	case conf.CommunalLength2:
		extra = 2
	case conf.CommunalLength3:
		extra = 3
	case conf.CommunalLength4:
		extra = 4
	}

	err = F.reader.Skip(extra)
	if err != nil {
		return
	}
	F.remaining -= extra

	return
}

// Skip - Skips a fixed width field of n bytes
func (F *FieldDecoder) Skip(n int64) (err error) {
	err = F.reader.Skip(n)
	if err != nil {
		return
	}
	F.remaining -= n

	return
}

// ReadByte - Reads a single raw byte
func (F *FieldDecoder) ReadByte() (b byte, err error) {
	b, err = F.reader.ReadByte()
	if err != nil {
		return
	}
	F.remaining--

	return
}

// Finish - Skips whatever is left of the record and consumes its checksum byte, leaving the reader at the
// next record header
func (F *FieldDecoder) Finish() (err error) {
	if F.remaining < conf.ChecksumLength {
		err = omferr.NewTruncatedRecord("*** %s ***: fields overrun record length by %d bytes",
			KindOf(F.recType), conf.ChecksumLength-F.remaining)
		return
	}

	err = F.reader.Skip(F.remaining - conf.ChecksumLength)
	if err != nil {
		return
	}

	err = F.reader.ReadChecksum(F.recType)
	if err != nil {
		return
	}
	F.remaining = 0

	return
}
