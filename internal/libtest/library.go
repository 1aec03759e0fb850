package libtest

import (
	"encoding/binary"
	"fmt"
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/hash"
)

// Library - Builder of an OMF library with a symbol dictionary
type Library struct {
	pageSize      int64
	numBlocks     int64
	caseSensitive bool
	allFull       bool
	hashAlgorithm hashfunc.HashAlgorithm
	modules       []module
}

type module struct {
	name    string
	data    []byte
	symbols []string
}

// NewLibrary - Returns a library builder.
//   - pageSize is the module alignment, a power of two of at least 16
//   - numBlocks is the number of dictionary blocks
func NewLibrary(pageSize, numBlocks int64) *Library {
	return &Library{
		pageSize:      pageSize,
		numBlocks:     numBlocks,
		hashAlgorithm: hash.NewDictionaryHashAlgorithm(numBlocks),
	}
}

// CaseSensitive - Sets the case-sensitive flag in the library header
func (L *Library) CaseSensitive() *Library {
	L.caseSensitive = true
	return L
}

// AllBlocksFull - Marks every dictionary block as full regardless of its contents
func (L *Library) AllBlocksFull() *Library {
	L.allFull = true
	return L
}

// WithHashAlgorithm - Places dictionary entries using hashAlgorithm instead of the standard hash
func (L *Library) WithHashAlgorithm(hashAlgorithm hashfunc.HashAlgorithm) *Library {
	hashAlgorithm.SetTableSize(L.numBlocks)
	L.hashAlgorithm = hashAlgorithm
	return L
}

// AddModule - Adds an object module. The dictionary gets "name!" plus every symbol, all pointing at the module.
func (L *Library) AddModule(name string, data []byte, symbols ...string) *Library {
	L.modules = append(L.modules, module{name: name, data: data, symbols: symbols})
	return L
}

// Bytes - Returns the library file contents and the file offset of each module by name
func (L *Library) Bytes() (data []byte, positions map[string]int64, err error) {
	positions = make(map[string]int64)
	data = make([]byte, L.pageSize)

	type entry struct {
		symbol string
		page   int64
	}
	var entries []entry

	for _, m := range L.modules {
		pos := int64(len(data))
		positions[m.name] = pos
		data = append(data, m.data...)
		data = append(data, make([]byte, roundUp(int64(len(data)), L.pageSize)-int64(len(data)))...)

		page := pos / L.pageSize
		entries = append(entries, entry{symbol: m.name + string(conf.ModuleNameSuffix), page: page})
		for _, s := range m.symbols {
			entries = append(entries, entry{symbol: s, page: page})
		}
	}

	// Marker record pads up to the dictionary's 512 byte alignment
	markerPos := int64(len(data))
	dictOffset := roundUp(markerPos+conf.RecordHeaderLength+1, conf.DictBlockSize)
	markerLength := dictOffset - markerPos - conf.RecordHeaderLength
	marker := make([]byte, conf.RecordHeaderLength+markerLength)
	marker[0] = conf.MARKERRECORD
	binary.LittleEndian.PutUint16(marker[1:], uint16(markerLength))
	data = append(data, marker...)

	dict := newDictionary(L.numBlocks)
	for _, e := range entries {
		err = dict.place(L.hashAlgorithm, e.symbol, e.page)
		if err != nil {
			return
		}
	}
	data = append(data, dict.bytes(L.allFull)...)

	// Library header
	data[0] = conf.LIBHEADER
	binary.LittleEndian.PutUint16(data[1:], uint16(L.pageSize-conf.PageSizeAdjustment))
	binary.LittleEndian.PutUint32(data[3:], uint32(dictOffset))
	binary.LittleEndian.PutUint16(data[7:], uint16(L.numBlocks))
	if L.caseSensitive {
		data[9] = conf.CaseSensitiveFlag
	}

	return
}

// dictionary - Symbol dictionary under construction
type dictionary struct {
	numBlocks int64
	blocks    [][]byte
	free      []int64
	full      []bool
}

func newDictionary(numBlocks int64) *dictionary {
	d := &dictionary{
		numBlocks: numBlocks,
		blocks:    make([][]byte, numBlocks),
		free:      make([]int64, numBlocks),
		full:      make([]bool, numBlocks),
	}
	for i := range d.blocks {
		d.blocks[i] = make([]byte, conf.DictBlockSize)
		d.free[i] = conf.FreeSpaceOffset + 1
	}

	return d
}

// place - Stores symbol at the first free bucket of its probe sequence that has room in its block.
// A block that had a free bucket but no room gets marked full so that readers keep probing past it.
func (D *dictionary) place(hashAlgorithm hashfunc.HashAlgorithm, symbol string, page int64) error {
	size := int64(1 + len(symbol) + 2)
	size += size & 1

	probe := hashAlgorithm.Hash([]byte(symbol))
	for i := int64(0); i < D.numBlocks*conf.NumBuckets; i++ {
		block, bucket := probe.Iteration(D.numBlocks, i)
		b := D.blocks[block]
		if b[bucket] != 0 {
			continue
		}
		if D.free[block]+size > conf.DictBlockSize {
			D.full[block] = true
			continue
		}

		offset := D.free[block]
		b[offset] = uint8(len(symbol))
		copy(b[offset+1:], symbol)
		binary.LittleEndian.PutUint16(b[offset+1+int64(len(symbol)):], uint16(page))
		b[bucket] = uint8(offset / 2)
		D.free[block] += size

		return nil
	}

	return fmt.Errorf("no room in dictionary for %s", symbol)
}

// bytes - Returns the dictionary blocks with their free space cursors set
func (D *dictionary) bytes(allFull bool) (buf []byte) {
	for i, b := range D.blocks {
		used := int64(0)
		for k := int64(0); k < conf.NumBuckets; k++ {
			if b[k] != 0 {
				used++
			}
		}

		switch {
		case allFull || D.full[i] || used == conf.NumBuckets || D.free[i] >= conf.DictBlockSize:
			b[conf.FreeSpaceOffset] = conf.DictBlockFull
		default:
			b[conf.FreeSpaceOffset] = uint8(D.free[i] / 2)
		}
		buf = append(buf, b...)
	}

	return
}

func roundUp(n, align int64) int64 {
	return (n + align - 1) / align * align
}
