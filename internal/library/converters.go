package library

import (
	"encoding/binary"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/omferr"
)

// bytesToLibraryHeader - Converts the library header payload (the bytes after the record type) to a
// LibraryHeader struct. Derived fields other than the page size adjustment are left to the caller.
func bytesToLibraryHeader(buf []byte) (header model.LibraryHeader) {
	header = model.LibraryHeader{
		PageSize:         int64(binary.LittleEndian.Uint16(buf[conf.PageSizeOffset:])) + conf.PageSizeAdjustment,
		DictionaryOffset: int64(binary.LittleEndian.Uint32(buf[conf.DictionaryOffsetOffset:])),
		NumDictBlocks:    int64(binary.LittleEndian.Uint16(buf[conf.NumDictBlocksOffset:])),
		Flags:            buf[conf.FlagsOffset],
	}
	header.IsCaseSensitive = header.Flags&conf.CaseSensitiveFlag != 0

	return
}

// bytesToDictEntry - Decodes the entry a bucket slot points at.
// The name is copied out of the block, so the entry outlives the cached block.
func bytesToDictEntry(block []byte, blockNo, bucketNo, pageSize int64) (entry model.DictEntry, err error) {
	entry = model.DictEntry{BlockNumber: blockNo, BucketNumber: bucketNo}

	slot := block[bucketNo]
	if slot == 0 {
		return
	}

	offset := int64(slot) * 2
	length := int64(block[offset])
	if offset+1+length+2 > conf.DictBlockSize {
		err = omferr.NewMalformedHeader("dictionary entry in block %d bucket %d runs past the block end", blockNo, bucketNo)
		return
	}

	entry.Symbol = make([]byte, length)
	_ = copy(entry.Symbol, block[offset+1:offset+1+length])
	entry.PageNumber = int64(binary.LittleEndian.Uint16(block[offset+1+length:]))
	entry.ModuleFilePos = entry.PageNumber * pageSize
	entry.IsFound = true

	return
}
