package library

import (
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/registry"
	"github.com/gostonefire/omflib/omferr"
)

// Entries - Is used to iterate over the used buckets of the symbol dictionary, block by block and bucket by bucket.
type Entries struct {
	file    *File
	block   int64
	bucket  int64
	pending model.DictEntry
	err     error
	fetched bool
}

// Entries - Returns a pointer to a new Entries iterator starting at block 0, bucket 0
func (F *File) Entries() *Entries {
	return &Entries{file: F}
}

// HasNext - Returns true if there are more entries to be fetched from a call to Next.
// A read error also counts, it is handed over by the next call to Next.
func (E *Entries) HasNext() bool {
	E.prefetch()
	return E.pending.IsFound || E.err != nil
}

// Next - Returns entry.
// It returns:
//   - entry is the next used dictionary entry.
//   - err is either an error from reading the dictionary or, if there are no more entries, an error of
//     type omferr.ModuleNotFound.
func (E *Entries) Next() (entry model.DictEntry, err error) {
	E.prefetch()
	E.fetched = false

	if E.err != nil {
		err = E.err
		E.err = nil
		return
	}

	if !E.pending.IsFound {
		err = omferr.NewModuleNotFound("no more dictionary entries")
		return
	}

	entry = E.pending
	E.pending = model.DictEntry{}

	return
}

// prefetch - Moves forward to the next used bucket unless that was already done
func (E *Entries) prefetch() {
	if E.fetched {
		return
	}
	E.fetched = true

	numBlocks := E.file.header.NumDictBlocks
	for E.block < numBlocks {
		entry, err := E.file.GetEntry(E.block, E.bucket)

		E.bucket++
		if E.bucket == conf.NumBuckets {
			E.bucket = 0
			E.block++
		}

		if err != nil {
			E.err = err
			E.block = numBlocks
			return
		}

		if entry.IsFound {
			E.pending = entry
			return
		}
	}
}

// DumpSymbols - Inserts every dictionary symbol into symbols with flags EXTDEF and PUBDEF.
// Module entries (names ending in '!') are left out.
func (F *File) DumpSymbols(symbols *registry.Registry) (err error) {
	var entry model.DictEntry
	var n int

	entries := F.Entries()
	for entries.HasNext() {
		entry, err = entries.Next()
		if err != nil {
			return
		}

		if isModuleEntry(entry.Symbol) || len(entry.Symbol) == 0 {
			continue
		}

		symbols.InsertOrMerge(entry.Symbol, model.Extdef|model.Pubdef)
		n++
	}

	F.log.Debugf("dumped %d dictionary symbols", n)

	return
}

// isModuleEntry - Returns true if symbol is a module name entry
func isModuleEntry(symbol []byte) bool {
	return len(symbol) > 0 && symbol[len(symbol)-1] == conf.ModuleNameSuffix
}
