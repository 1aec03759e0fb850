package omf

import (
	"encoding/binary"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
)

// bytesToRecordHeader - Converts a slice of bytes to a RecordHeader struct
func bytesToRecordHeader(buf []byte) (header model.RecordHeader) {
	header = model.RecordHeader{
		Type:   buf[0],
		Length: binary.LittleEndian.Uint16(buf[1:]),
	}

	return
}

// RecordHeaderToBytes - Converts a RecordHeader struct to its 3 byte on-disk form
func RecordHeaderToBytes(header model.RecordHeader) (buf []byte) {
	buf = make([]byte, conf.RecordHeaderLength)
	buf[0] = header.Type
	binary.LittleEndian.PutUint16(buf[1:], header.Length)

	return
}
