// Package deffile renders module definition (.DEF) files from extracted symbols.
package deffile

import (
	"fmt"
	"github.com/gostonefire/omflib/internal/objfile"
	"github.com/gostonefire/omflib/internal/utils"
	"github.com/pmezard/go-difflib/difflib"
	"io"
)

// Section headings
const (
	headingGlobalFunctions = ";   Names External and Public (Global Functions):\n"
	headingPublicData      = ";   Names Public (Global Variables initialized):\n"
	headingCommunals       = ";   Names Communal (Global Variables uninitialized):\n"
	headingExternals       = ";   Names External (External Functions and Variables):\n"
)

// Writer - Writes a .DEF file. The EXPORTS header is written once, in front of the first section.
type Writer struct {
	w             io.Writer
	libraryName   string
	headerWritten bool
	err           error
}

// NewWriter - Returns a pointer to a new Writer
//   - w is where the .DEF text goes
//   - libraryName is the LIBRARY name, if empty it is derived from the first file written about
func NewWriter(w io.Writer, libraryName string) *Writer {
	return &Writer{w: w, libraryName: libraryName}
}

// LibraryName - Returns the library name, which is empty until the header has been written if none was given
func (W *Writer) LibraryName() string {
	return W.libraryName
}

// WriteObject - Writes the section of one object file.
// Nothing but the header (if still due) is written when the report is empty.
func (W *Writer) WriteObject(path string, report objfile.Report) error {
	W.header(path)

	if report.IsEmpty() {
		return W.err
	}

	W.printf("; OBJ-file: %s\n", path)

	if len(report.GlobalFunctions) > 0 {
		W.printf(headingGlobalFunctions)
		W.names("\t", report.GlobalFunctions)
	}

	if len(report.PublicData) > 0 {
		W.printf(headingPublicData)
		W.names("\t", report.PublicData)
	}

	if len(report.Communals) > 0 {
		W.printf(headingCommunals)
		for _, c := range report.Communals {
			if c.Commented {
				W.printf(";\t%s\n", c.Name)
			} else {
				W.printf("\t%s\n", c.Name)
			}
		}
	}

	if len(report.Externals) > 0 {
		W.printf(headingExternals)
		W.names(";\t", report.Externals)
	}

	return W.err
}

// WriteLibrary - Writes the section of one library file with its dictionary symbols
func (W *Writer) WriteLibrary(path string, symbols []string) error {
	W.header(path)

	W.printf("; LIB-file: %s\n", path)
	W.printf(headingGlobalFunctions)
	W.names("\t", symbols)

	return W.err
}

// header - Writes the .DEF header unless already done
func (W *Writer) header(path string) {
	if W.headerWritten {
		return
	}
	W.headerWritten = true

	if W.libraryName == "" {
		W.libraryName = utils.DefaultLibraryName(path)
	}

	W.printf("LIBRARY\t%s\tINITINSTANCE\n", W.libraryName)
	W.printf("DESCRIPTION\t'%s.DLL --- Copyright <Your Copyright>'\n", W.libraryName)
	W.printf("CODE\tSHARED\n")
	W.printf("DATA\tNONSHARED\n")
	W.printf("EXPORTS\n")
}

// names - Writes one line per name
func (W *Writer) names(prefix string, names []string) {
	for _, name := range names {
		W.printf("%s%s\n", prefix, name)
	}
}

// printf - Writes formatted text, keeping the first error
func (W *Writer) printf(format string, args ...any) {
	if W.err != nil {
		return
	}

	_, err := fmt.Fprintf(W.w, format, args...)
	if err != nil {
		W.err = fmt.Errorf("error while writing definition file: %w", err)
	}
}

// Diff - Returns a unified diff from an existing .DEF file to a generated one, empty if they are equal
func Diff(existingName, existing, generatedName, generated string) (diff string, err error) {
	if existing == generated {
		return
	}

	diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(generated),
		FromFile: existingName,
		ToFile:   generatedName,
		Context:  3,
	})
	if err != nil {
		err = fmt.Errorf("error while comparing definition files: %w", err)
	}

	return
}
