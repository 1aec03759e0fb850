// Package library reads OMF object module libraries: the library header, the hashed symbol dictionary and the
// object modules it points at.
package library

import (
	"fmt"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/hash"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/omf"
	"github.com/gostonefire/omflib/internal/utils"
	"github.com/gostonefire/omflib/omferr"
	"io"
)

// undefinedBlock - Block number of an empty block cache
const undefinedBlock int64 = -1

// dictBlock - The one dictionary block held in memory
type dictBlock struct {
	data   []byte
	number int64
	isFull bool
}

// File - Represents an open library file.
// All reads go through one record reader, so a File must not be used concurrently.
type File struct {
	reader        *omf.Reader
	header        model.LibraryHeader
	hashAlgorithm hashfunc.HashAlgorithm
	block         dictBlock
	log           logger.Logger
}

// NewFile - Returns a pointer to a new File after reading and checking the library header.
//   - src is the library file, positioned anywhere
//   - hashAlgorithm replaces the standard dictionary hash if not nil
//   - log is the logger to use
//
// It returns:
//   - file which is a pointer to the created instance
//   - err is MalformedHeader if src is not a library, else any error from reading the header
func NewFile(src io.ReadSeeker, hashAlgorithm hashfunc.HashAlgorithm, log logger.Logger) (file *File, err error) {
	reader, err := omf.NewReader(src)
	if err != nil {
		return
	}

	header, err := ReadHeader(reader, log)
	if err != nil {
		return
	}

	if hashAlgorithm == nil {
		hashAlgorithm = hash.NewDictionaryHashAlgorithm(header.NumDictBlocks)
	} else {
		hashAlgorithm.SetTableSize(header.NumDictBlocks)
	}

	file = &File{
		reader:        reader,
		header:        header,
		hashAlgorithm: hashAlgorithm,
		block:         dictBlock{data: make([]byte, conf.DictBlockSize), number: undefinedBlock},
		log:           log,
	}

	log.Debugf("library page size %d, dictionary at %d with %d blocks, case-sensitive %t, LIBMOD %t",
		header.PageSize, header.DictionaryOffset, header.NumDictBlocks, header.IsCaseSensitive, header.IsLIBMODFormat)

	return
}

// Header - Returns the library header
func (F *File) Header() model.LibraryHeader {
	return F.header
}

// getBlock - Makes sure blockNo is the cached dictionary block, reading it from file only if it isn't
func (F *File) getBlock(blockNo int64) (err error) {
	if F.block.number == blockNo {
		return
	}

	// Whatever was cached is stale from here on
	F.block.number = undefinedBlock

	address := F.header.DictionaryOffset + blockNo*conf.DictBlockSize
	err = F.reader.Seek(address)
	if err != nil {
		err = omferr.NewSeekFailure("Could Not Find Symbol Dictionary: %s", err)
		return
	}

	err = F.reader.ReadFull(F.block.data)
	if err != nil {
		err = fmt.Errorf("error while reading dictionary block %d: %w", blockNo, err)
		return
	}

	F.block.isFull = F.block.data[conf.FreeSpaceOffset] == conf.DictBlockFull
	F.block.number = blockNo

	F.log.Debugf("read dictionary block %d at %d, full %t", blockNo, address, F.block.isFull)

	return
}

// GetEntry - Returns the dictionary entry of a block and bucket.
// An empty bucket gives an entry with IsFound false and no error.
func (F *File) GetEntry(blockNo, bucketNo int64) (entry model.DictEntry, err error) {
	if blockNo < 0 || blockNo >= F.header.NumDictBlocks || bucketNo < 0 || bucketNo >= conf.NumBuckets {
		err = omferr.NewMalformedHeader("dictionary position block %d bucket %d outside of %d blocks", blockNo, bucketNo, F.header.NumDictBlocks)
		return
	}

	err = F.getBlock(blockNo)
	if err != nil {
		return
	}

	entry, err = bytesToDictEntry(F.block.data, blockNo, bucketNo, F.header.PageSize)

	return
}

// FindSymbol - Searches the dictionary for symbol.
// The search follows the probe sequence of the hash algorithm and gives up after number of blocks times 37 probes.
//   - symbol is the name to look for, compared according to the library's case sensitivity
//
// It returns:
//   - entry is the found dictionary entry
//   - err is ModuleNotFound if the symbol isn't in the dictionary, ProbingAlgorithm if the hash algorithm
//     produced out of range values, or an error from reading the dictionary
func (F *File) FindSymbol(symbol []byte) (entry model.DictEntry, err error) {
	numBlocks := F.header.NumDictBlocks
	probe := F.hashAlgorithm.Hash(symbol)
	if probe.BlockHash < 0 || probe.BlockHash >= numBlocks || probe.BucketHash < 0 || probe.BucketHash >= conf.NumBuckets ||
		probe.BlockOverflow < 1 || probe.BucketOverflow < 1 {
		err = omferr.NewProbingAlgorithm("hash of %s gave %+v for %d blocks", symbol, probe, numBlocks)
		return
	}

	iMax := numBlocks * conf.NumBuckets

	for i := int64(0); i < iMax; i++ {
		block, bucket := probe.Iteration(numBlocks, i)

		entry, err = F.GetEntry(block, bucket)
		if err != nil {
			return
		}

		if !entry.IsFound {
			if !F.block.isFull {
				F.log.Debugf("%s not in dictionary after %d probes", symbol, i+1)
				break
			}
			continue
		}

		if utils.EqualSymbol(symbol, entry.Symbol, F.header.IsCaseSensitive) {
			F.log.Debugf("%s found in block %d bucket %d after %d probes", symbol, block, bucket, i+1)
			return
		}
	}

	entry = model.DictEntry{}
	err = omferr.NewModuleNotFound("%s not found in symbol dictionary", symbol)

	return
}

// FindModule - Searches the dictionary for an object module.
// Any extension is stripped from name and the module name marker '!' appended before searching.
func (F *File) FindModule(name string) (entry model.DictEntry, err error) {
	symbol := append([]byte(utils.StripExtension(name)), conf.ModuleNameSuffix)

	return F.FindSymbol(symbol)
}
