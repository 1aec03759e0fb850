package library

import (
	"errors"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/hash"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/omf"
	"github.com/gostonefire/omflib/omferr"
	"io"
)

// ReadHeader - Reads the library header at offset 0 and checks it for validity.
// It then positions at the first module to find out whether the library uses the LIBMOD extension.
//   - reader is the library file's record reader
//   - log receives notes about unusual but readable geometry
//
// It returns:
//   - header is the decoded header with page size adjusted and derived flags set
//   - err is MalformedHeader if the file isn't a library or has an impossible geometry, else an I/O error
func ReadHeader(reader *omf.Reader, log logger.Logger) (header model.LibraryHeader, err error) {
	err = reader.Seek(0)
	if err != nil {
		return
	}

	buf := make([]byte, 1+conf.LibHeaderLength)
	err = reader.ReadFull(buf)
	if err != nil {
		var eof omferr.UnexpectedEOF
		if errors.As(err, &eof) {
			err = omferr.NewMalformedHeader("Couldn't Read Library Header")
		}
		return
	}

	if buf[0] != conf.LIBHEADER {
		err = omferr.NewMalformedHeader("Bogus Library Header")
		return
	}

	header = bytesToLibraryHeader(buf[1:])

	if header.NumDictBlocks < 1 || header.NumDictBlocks > conf.MaxDictBlocks {
		err = omferr.NewMalformedHeader("number of dictionary blocks %d not in [1, %d]", header.NumDictBlocks, conf.MaxDictBlocks)
		return
	}
	if !hash.IsPrimeBlockCount(header.NumDictBlocks) {
		log.Infof("dictionary block count %d is not a prime, next prime is %d",
			header.NumDictBlocks, hash.NextPrimeBlockCount(header.NumDictBlocks))
	}

	err = reader.Seek(header.PageSize)
	if err != nil {
		err = omferr.NewSeekFailure("Seek for first object module failed: %s", err)
		return
	}

	header.IsLIBMODFormat, err = FindLIBMOD(reader)

	return
}

// FindLIBMOD - Looks for a LIBMOD comment in the module the reader is positioned in.
// The search stops at MODEND, at the dictionary marker or at end of file.
// When found the reader is left at the LIBMOD name field.
func FindLIBMOD(reader *omf.Reader) (found bool, err error) {
	var header model.RecordHeader
	class := make([]byte, conf.ComentHeaderLength-conf.RecordHeaderLength)

	for {
		header, found, err = findRecord(reader, conf.COMENT)
		if err != nil || !found {
			return
		}

		err = reader.ReadFull(class)
		if err != nil {
			return
		}

		if class[1] == conf.LIBMOD {
			return
		}

		err = reader.Skip(int64(header.Length) - int64(len(class)))
		if err != nil {
			return
		}
	}
}

// findRecord - Reads records until one of type recType has its header read.
// Other records are skipped. Not finding it before the module ends is not an error.
func findRecord(reader *omf.Reader, recType uint8) (header model.RecordHeader, found bool, err error) {
	for {
		header, err = reader.ReadHeader()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return
		}

		if header.Type == recType {
			found = true
			return
		}

		switch omf.KindOf(header.Type) {
		case omf.KindModEnd, omf.KindDictMarker:
			return
		}

		err = reader.Skip(int64(header.Length))
		if err != nil {
			return
		}
	}
}
