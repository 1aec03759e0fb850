package omflib

import (
	"fmt"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib/hashfunc"
	"github.com/gostonefire/omflib/internal/deffile"
	"github.com/gostonefire/omflib/internal/model"
	"github.com/gostonefire/omflib/internal/objfile"
	"github.com/gostonefire/omflib/internal/omf"
	"github.com/gostonefire/omflib/internal/registry"
	"io"
	"os"
)

// SymbolFlag - Bit mask of symbol categories
type SymbolFlag = model.SymbolFlag

// Symbol categories a caller can request besides the always reported global functions
const (
	Extdef = model.Extdef
	Pubdef = model.Pubdef
	Comdef = model.Comdef
)

// Report - Symbols of one object file split into categories
type Report = objfile.Report

// Communal - A communal name and whether it was reported before in the session
type Communal = objfile.Communal

// SessionConfig - Configuration of a Session
//   - LibraryName is the LIBRARY name in the .DEF header, derived from the first file if empty
//   - HashAlgorithm is an optional replacement of the dictionary hash for libraries
//   - Diagnostics receives warnings, os.Stderr if nil
type SessionConfig struct {
	LibraryName   string
	HashAlgorithm hashfunc.HashAlgorithm
	Diagnostics   io.Writer
}

// Session - Processes object and library files one at a time and renders their symbols to one .DEF file.
// Communal names are remembered across all files of the session.
type Session struct {
	conf       SessionConfig
	def        *deffile.Writer
	diag       io.Writer
	dispatcher *objfile.Dispatcher
	symbols    *registry.Registry
	communals  *registry.Registry
	log        logger.Logger
}

// NewSession - Returns a pointer to a new Session
//   - conf is the session configuration
//   - def is where the .DEF text is written
//   - log is the logger to use
func NewSession(conf SessionConfig, def io.Writer, log logger.Logger) *Session {
	diag := conf.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}

	return &Session{
		conf:       conf,
		def:        deffile.NewWriter(def, conf.LibraryName),
		diag:       diag,
		dispatcher: objfile.NewDispatcher(log),
		symbols:    registry.NewRegistry(),
		communals:  registry.NewRegistry(),
		log:        log,
	}
}

// LibraryName - Returns the LIBRARY name used in the .DEF header, empty before the first file
func (S *Session) LibraryName() string {
	return S.def.LibraryName()
}

// ProcessObjectFile - Extracts the symbols of an object file and writes its .DEF section.
//   - path is the object file
//   - requested holds the categories to report besides global functions: Pubdef, Comdef and Extdef
//
// It returns:
//   - report is what was written
//   - err is any error from reading the object file or writing the .DEF file, all of them fatal
func (S *Session) ProcessObjectFile(path string, requested SymbolFlag) (report Report, err error) {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("object file %s not found: %w", path, err)
		return
	}
	defer func(f *os.File) { _ = f.Close() }(f)

	S.log.Infof("Processing %s", path)

	reader, err := omf.NewReader(f)
	if err != nil {
		return
	}

	options := objfile.Options{Requested: requested}
	S.symbols.Reset()

	_, err = S.dispatcher.Process(reader, S.symbols, S.communals, options)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		return
	}

	report = objfile.Classify(S.symbols, S.communals, options)
	S.symbols.Reset()

	err = S.def.WriteObject(path, report)

	return
}

// ProcessLibraryFile - Lists every symbol of a library's dictionary in the .DEF file.
// It returns the symbols in the order written.
func (S *Session) ProcessLibraryFile(path string) (symbols []string, err error) {
	lib, err := OpenLibrary(path, S.log, WithHashAlgorithm(S.conf.HashAlgorithm), WithDiagnostics(S.diag))
	if err != nil {
		return
	}
	defer func(lib *Library) { _ = lib.Close() }(lib)

	S.log.Infof("Processing %s", path)

	S.symbols.Reset()
	err = lib.file.DumpSymbols(S.symbols)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		return
	}

	for _, symbol := range S.symbols.Drain() {
		symbols = append(symbols, symbol.Name)
	}

	err = S.def.WriteLibrary(path, symbols)

	return
}

// Close - Releases the session's communal names. The session must not be used afterwards.
func (S *Session) Close() {
	S.communals.Reset()
	S.symbols.Reset()
}
