// Package objfile walks the record stream of one OMF object module and collects the symbols it declares.
package objfile

import (
	"errors"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/omf"
	"github.com/gostonefire/omflib/internal/registry"
	"github.com/gostonefire/omflib/omferr"
	"io"
)

// Options - Which symbol categories the caller wants reported besides global functions.
// Requested holds model.Pubdef, model.Extdef and model.Comdef bits. COMDEF records are only decoded when
// model.Comdef is requested.
type Options struct {
	Requested model.SymbolFlag
}

// Dispatcher - Decodes the symbol declaring records of object modules
type Dispatcher struct {
	log logger.Logger
}

// NewDispatcher - Returns a pointer to a new Dispatcher
func NewDispatcher(log logger.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Process - Reads records from reader until MODEND.
// EXTDEF and PUBDEF names go into symbols, COMDEF names into communals. The communals registry lives for the
// whole run so that a communal is only reported once.
//   - reader is positioned at the first record of the module
//   - symbols is the registry of the current object file
//   - communals is the run wide communal registry
//   - options tells which categories are requested
//
// It returns:
//   - sawCommunal is true if at least one COMDEF name was decoded
//   - err is any of the omferr format errors or an I/O error, all of them fatal
func (D *Dispatcher) Process(reader *omf.Reader, symbols, communals *registry.Registry, options Options) (sawCommunal bool, err error) {
	var header model.RecordHeader
	var fd *omf.FieldDecoder
	var seen bool

	for {
		header, err = reader.ReadHeader()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = omferr.NewUnexpectedEOF("unexpected EOF in object header at %d", reader.Offset())
			}
			return
		}

		fd = omf.NewFieldDecoder(reader, header)
		kind := omf.KindOf(header.Type)

		switch kind {
		case omf.KindExtdef:
			err = D.extdef(fd, symbols)

		case omf.KindPubdef, omf.KindPubdef32:
			err = D.pubdef(fd, symbols, kind == omf.KindPubdef32)

		case omf.KindComdef:
			if options.Requested.Has(model.Comdef) {
				seen, err = D.comdef(fd, communals, header.Type)
				sawCommunal = sawCommunal || seen
			}

		default:
			D.log.Debugf("skipping %s record (%02XH) of %d bytes at %d", kind, header.Type, header.Length, reader.Offset())
		}
		if err != nil {
			return
		}

		err = fd.Finish()
		if err != nil {
			return
		}

		if kind == omf.KindModEnd {
			return
		}
	}
}

// extdef - Decodes an EXTDEF record: repeated name and type index
func (D *Dispatcher) extdef(fd *omf.FieldDecoder, symbols *registry.Registry) (err error) {
	var name []byte

	for fd.Remaining() > conf.ChecksumLength {
		name, err = fd.ReadName()
		if err != nil {
			return
		}
		symbols.InsertOrMerge(name, model.Extdef)

		_, err = fd.ReadIndex()
		if err != nil {
			return
		}
	}

	return
}

// pubdef - Decodes a PUBDEF record: group index, segment index, frame number if the segment index is 0, then
// repeated name, offset and type index. The 32 bit form has a 4 byte offset.
func (D *Dispatcher) pubdef(fd *omf.FieldDecoder, symbols *registry.Registry, is32 bool) (err error) {
	var name []byte
	var segment uint16

	_, err = fd.ReadIndex()
	if err != nil {
		return
	}
	segment, err = fd.ReadIndex()
	if err != nil {
		return
	}
	if segment == 0 {
		err = fd.ReadNumber()
		if err != nil {
			return
		}
	}

	for fd.Remaining() > conf.ChecksumLength {
		name, err = fd.ReadName()
		if err != nil {
			return
		}
		symbols.InsertOrMerge(name, model.Pubdef)

		err = fd.ReadNumber()
		if err != nil {
			return
		}
		if is32 {
			err = fd.ReadNumber()
			if err != nil {
				return
			}
		}

		_, err = fd.ReadIndex()
		if err != nil {
			return
		}
	}

	return
}

// comdef - Decodes a COMDEF record: repeated name, type index, data segment type and one (NEAR) or two (FAR)
// communal lengths
func (D *Dispatcher) comdef(fd *omf.FieldDecoder, communals *registry.Registry, recType uint8) (seen bool, err error) {
	var name []byte
	var segType uint8

	for fd.Remaining() > conf.ChecksumLength {
		seen = true

		name, err = fd.ReadName()
		if err != nil {
			return
		}
		communals.InsertOrMerge(name, model.Comdef)

		_, err = fd.ReadIndex()
		if err != nil {
			return
		}

		segType, err = fd.ReadByte()
		if err != nil {
			return
		}

		switch segType {
		case conf.DataSegmentNear:
			_, err = fd.ReadLength()
		case conf.DataSegmentFar:
			_, err = fd.ReadLength()
			if err == nil {
				_, err = fd.ReadLength()
			}
		default:
			err = omferr.NewUnsupportedDataSegmentTag("Unexpected Data Seg Type %.2XH in RECTYP %.2XH", segType, recType)
		}
		if err != nil {
			return
		}
	}

	return
}
