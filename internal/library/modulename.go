package library

import (
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/omferr"
)

// ModuleName - Returns the name an object module carries.
// That is the THEADR name, or the LIBMOD comment's name when the library uses the LIBMOD extension.
//   - pos is the module's file position
//
// It returns:
//   - name is the module name
//   - found is false if the library uses LIBMOD but this module has no LIBMOD comment
//   - err is MalformedHeader if the module doesn't start with THEADR, or a read error
func (F *File) ModuleName(pos int64) (name string, found bool, err error) {
	err = F.reader.Seek(pos)
	if err != nil {
		return
	}

	if F.header.IsLIBMODFormat {
		found, err = FindLIBMOD(F.reader)
		if err != nil || !found {
			return
		}
	} else {
		header, rErr := F.reader.ReadHeader()
		if rErr != nil {
			err = omferr.NewMalformedHeader("Couldn't Read THEADR at %x: %s", pos, rErr)
			return
		}
		if header.Type != conf.THEADR {
			err = omferr.NewMalformedHeader("Bogus THEADR OMF record at %x", pos)
			return
		}
		found = true
	}

	length, err := F.reader.ReadByte()
	if err != nil {
		return
	}

	buf := make([]byte, length)
	err = F.reader.ReadFull(buf)
	if err != nil {
		return
	}
	name = string(buf)

	return
}

// Module - A module listed in the symbol dictionary
//   - Name is the dictionary name without the trailing '!'
//   - StoredName is the THEADR or LIBMOD name, empty if a LIBMOD library lacks it for this module
//   - FilePos is the module's file position
type Module struct {
	Name       string
	StoredName string
	FilePos    int64
}

// Modules - Returns all modules listed in the symbol dictionary, in dictionary order
func (F *File) Modules() (modules []Module, err error) {
	entries := F.Entries()
	for entries.HasNext() {
		entry, nErr := entries.Next()
		if nErr != nil {
			err = nErr
			return
		}
		if !isModuleEntry(entry.Symbol) {
			continue
		}

		modules = append(modules, Module{
			Name:    string(entry.Symbol[:len(entry.Symbol)-1]),
			FilePos: entry.ModuleFilePos,
		})
	}

	for i := range modules {
		modules[i].StoredName, _, err = F.ModuleName(modules[i].FilePos)
		if err != nil {
			return
		}
	}

	return
}
