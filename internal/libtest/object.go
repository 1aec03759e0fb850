// Package libtest builds synthetic OMF object modules and libraries for tests.
// Records carry valid checksums and library dictionaries are populated with the same hash and probe sequence the
// library reader uses.
package libtest

import (
	"bytes"
	"encoding/binary"
	"github.com/gostonefire/omflib/internal/conf"
)

// Record - Returns a complete record: type, length, payload and checksum
func Record(recType uint8, payload []byte) []byte {
	length := len(payload) + 1
	buf := make([]byte, 0, 3+length)
	buf = append(buf, recType, 0, 0)
	binary.LittleEndian.PutUint16(buf[1:], uint16(length))
	buf = append(buf, payload...)

	var sum uint8
	for _, b := range buf {
		sum += b
	}

	return append(buf, -sum)
}

// Name - Returns name in length prefixed form
func Name(name string) []byte {
	return append([]byte{uint8(len(name))}, name...)
}

// Index - Returns the one or two byte encoding of an index
func Index(index uint16) []byte {
	if index < 0x80 {
		return []byte{uint8(index)}
	}

	return []byte{0x80 | uint8(index>>8), uint8(index)}
}

// Object - Builder of one object module
type Object struct {
	buf bytes.Buffer
}

// NewObject - Returns an object module builder starting with a THEADR record
func NewObject(name string) *Object {
	o := &Object{}
	o.buf.Write(Record(conf.THEADR, Name(name)))
	return o
}

// Extdef - Adds an EXTDEF record declaring names
func (O *Object) Extdef(names ...string) *Object {
	var p []byte
	for _, n := range names {
		p = append(p, Name(n)...)
		p = append(p, Index(0)...)
	}
	O.buf.Write(Record(conf.EXTDEF, p))
	return O
}

// Pubdef - Adds a 16 bit PUBDEF record for names in segment seg
func (O *Object) Pubdef(seg uint16, names ...string) *Object {
	p := append(Index(1), Index(seg)...)
	if seg == 0 {
		p = append(p, 0x00, 0x10) // frame number
	}
	for i, n := range names {
		p = append(p, Name(n)...)
		p = append(p, uint8(i*4), 0x00)
		p = append(p, Index(0)...)
	}
	O.buf.Write(Record(conf.PUBDEF, p))
	return O
}

// Pubdef32 - Adds a 32 bit PUBDEF record for names in segment seg
func (O *Object) Pubdef32(seg uint16, names ...string) *Object {
	p := append(Index(0), Index(seg)...)
	if seg == 0 {
		p = append(p, 0x00, 0x10)
	}
	for i, n := range names {
		p = append(p, Name(n)...)
		p = append(p, uint8(i*4), 0x00, 0x01, 0x00)
		p = append(p, Index(0x102)...)
	}
	O.buf.Write(Record(conf.PUBDEF32, p))
	return O
}

// ComdefNear - Adds a COMDEF record with NEAR communals, each with a length using the 81h escape
func (O *Object) ComdefNear(names ...string) *Object {
	var p []byte
	for _, n := range names {
		p = append(p, Name(n)...)
		p = append(p, Index(0)...)
		p = append(p, conf.DataSegmentNear, conf.CommunalLength2, 0x00, 0x02)
	}
	O.buf.Write(Record(conf.COMDEF, p))
	return O
}

// ComdefFar - Adds a COMDEF record with FAR communals: element count using the 84h escape and a one byte element size
func (O *Object) ComdefFar(names ...string) *Object {
	var p []byte
	for _, n := range names {
		p = append(p, Name(n)...)
		p = append(p, Index(0)...)
		p = append(p, conf.DataSegmentFar, conf.CommunalLength3, 0x00, 0x00, 0x01, 0x04)
	}
	O.buf.Write(Record(conf.COMDEF, p))
	return O
}

// Coment - Adds a COMENT record of the given class
func (O *Object) Coment(class uint8, data []byte) *Object {
	p := append([]byte{0x00, class}, data...)
	O.buf.Write(Record(conf.COMENT, p))
	return O
}

// LibMod - Adds a LIBMOD comment carrying name
func (O *Object) LibMod(name string) *Object {
	return O.Coment(conf.LIBMOD, Name(name))
}

// Raw - Adds a record of any type
func (O *Object) Raw(recType uint8, payload []byte) *Object {
	O.buf.Write(Record(recType, payload))
	return O
}

// ModEnd - Adds the MODEND record
func (O *Object) ModEnd() *Object {
	O.buf.Write(Record(conf.MODEND, []byte{0x00}))
	return O
}

// Bytes - Returns the module's bytes
func (O *Object) Bytes() []byte {
	return append([]byte(nil), O.buf.Bytes()...)
}
