package omflib

import (
	"fmt"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/library"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/output"
	"github.com/gostonefire/omflib/internal/registry"
	"github.com/gostonefire/omflib/omferr"
	"io"
	"os"
)

// LibraryHeader - The decoded library header
type LibraryHeader = model.LibraryHeader

// Module - A module listed in a library's dictionary
type Module = library.Module

// libraryOptions - Optional settings of OpenLibrary
type libraryOptions struct {
	hashAlgorithm hashfunc.HashAlgorithm
	diagnostics   io.Writer
}

// LibraryOption - Option function for OpenLibrary
type LibraryOption func(*libraryOptions)

// WithHashAlgorithm - Replaces the standard dictionary hash, a nil hashAlgorithm keeps the standard one
func WithHashAlgorithm(hashAlgorithm hashfunc.HashAlgorithm) LibraryOption {
	return func(o *libraryOptions) {
		o.hashAlgorithm = hashAlgorithm
	}
}

// WithDiagnostics - Sends warnings to diagnostics instead of os.Stderr
func WithDiagnostics(diagnostics io.Writer) LibraryOption {
	return func(o *libraryOptions) {
		o.diagnostics = diagnostics
	}
}

// Library - An open OMF library
type Library struct {
	path string
	f    *os.File
	file *library.File
	sink *output.Sink
	log  logger.Logger
}

// OpenLibrary - Opens a library file and reads its header.
//   - path is the library file
//   - log is the logger to use
//   - opts are optional settings
//
// It returns:
//   - lib is a pointer to the opened Library, close it with Close
//   - err is omferr.MalformedHeader if path is not a library, or an I/O error
func OpenLibrary(path string, log logger.Logger, opts ...LibraryOption) (lib *Library, err error) {
	o := libraryOptions{diagnostics: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("couldn't open %s: %w", path, err)
		return
	}

	file, err := library.NewFile(f, o.hashAlgorithm, log)
	if err != nil {
		_ = f.Close()
		err = fmt.Errorf("%s: %w", path, err)
		return
	}

	lib = &Library{
		path: path,
		f:    f,
		file: file,
		sink: output.NewSink(nil, o.diagnostics),
		log:  log,
	}

	return
}

// Close - Closes the library file
func (L *Library) Close() error {
	return L.f.Close()
}

// Header - Returns the library header
func (L *Library) Header() LibraryHeader {
	return L.file.Header()
}

// FindModule - Returns the file position of a module.
// Any extension of name is ignored. found is false if there is no such module.
func (L *Library) FindModule(name string) (pos int64, found bool, err error) {
	entry, err := L.file.FindModule(name)
	if err != nil {
		if omferr.IsNotFound(err) {
			err = nil
		}
		return
	}

	pos = entry.ModuleFilePos
	found = true

	return
}

// ExtractModule - Writes a module of the library to a standalone object file.
//   - name is the module name, with or without extension
//   - newName is the file to write, name is used if empty
//
// It returns:
//   - extracted is false if the module isn't in the library
//   - err is any error from reading the library or writing the object file
func (L *Library) ExtractModule(name, newName string) (extracted bool, err error) {
	extracted, err = L.file.ExtractModule(name, newName)
	if err != nil {
		err = fmt.Errorf("%s: %w", L.path, err)
	}

	return
}

// ModuleName - Returns the name stored in the module at pos.
// A LIBMOD library module without LIBMOD comment gives a warning and found false.
func (L *Library) ModuleName(pos int64) (name string, found bool, err error) {
	name, found, err = L.file.ModuleName(pos)
	if err != nil || found {
		return
	}

	err = L.sink.Warningf("No LIBMOD record found at %x\n", pos)

	return
}

// Modules - Returns the modules of the library
func (L *Library) Modules() (modules []Module, err error) {
	modules, err = L.file.Modules()
	if err != nil {
		return
	}

	for _, m := range modules {
		if m.StoredName == "" && L.file.Header().IsLIBMODFormat {
			err = L.sink.Warningf("No LIBMOD record found at %x\n", m.FilePos)
			if err != nil {
				return
			}
		}
	}

	return
}

// Symbols - Returns the library's dictionary symbols in ascending order, module entries excluded
func (L *Library) Symbols() (symbols []string, err error) {
	r := registry.NewRegistry()
	err = L.file.DumpSymbols(r)
	if err != nil {
		return
	}

	symbols = r.Names()

	return
}

