// Package main provides the omfdef CLI: it reads OMF object files and libraries and writes a module definition
// (.DEF) file exporting their symbols. It can also list and extract the modules of libraries.
//
// Usage:
//   - .DEF file : omfdef [-l libname] [-d deffile] [-o objlist] [-b liblist] [-p] [-c] [-e] files...
//   - modules   : omfdef -m files.lib...
//   - extract   : omfdef -x name[=newname] [-x ...] files.lib...
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/gostonefire/omflib"
	"github.com/gostonefire/omflib/internal/deffile"
	"github.com/gostonefire/omflib/internal/output"
	"github.com/gostonefire/omflib/internal/utils"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractList - Repeatable -x flag values
type extractList []string

func (E *extractList) String() string {
	return strings.Join(*E, ",")
}

func (E *extractList) Set(value string) error {
	if value == "" {
		return fmt.Errorf("module name can not be empty")
	}
	*E = append(*E, value)
	return nil
}

// config - Parsed command line
type config struct {
	libraryName string
	defFile     string
	objList     string
	libList     string
	diffFile    string
	requested   omflib.SymbolFlag
	extracts    extractList
	modules     bool
	files       []string
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, ok := parseFlags()
	if !ok {
		return 1
	}

	log := logger.Sugar.WithServiceName("omfdef")
	defer logger.OnExit()

	sink := output.NewSink(os.Stdout, os.Stderr)

	var err error
	if cfg.modules || len(cfg.extracts) > 0 {
		err = libraryTool(cfg, sink, log)
	} else {
		err = makeDef(cfg, log)
	}

	if err != nil {
		_ = sink.Errorf("%s\n", err)
		return 1
	}

	return 0
}

// parseFlags - Parses the command line, logger set up included
func parseFlags() (cfg config, ok bool) {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Analyse .OBJ or .LIB files to produce a .DEF file with their exports\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [-l libname] [-d deffile] [-o objlist] [-b liblist] [-p] [-c] [-e] files...\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -m files.lib...\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s -x name[=newname] files.lib...\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, "\nGlobal function names (public and external) are always exported.")
		fmt.Fprintln(os.Stderr, "Communal names are exported once per name, repeats are shown as comments.")
		fmt.Fprintln(os.Stderr, "External names are only emitted as comments.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	flag.StringVar(&cfg.libraryName, "l", "", "library name (default: base name of the first file)")
	flag.StringVar(&cfg.defFile, "d", "", "definition file to write (default: stdout)")
	flag.StringVar(&cfg.objList, "o", "", "file with a list of object files to process")
	flag.StringVar(&cfg.libList, "b", "", "file with a list of libraries to process (-p, -c and -e ignored)")
	flag.StringVar(&cfg.diffFile, "diff", "", "print a unified diff from this existing .DEF file to the generated one")
	pubdef := flag.Bool("p", false, "export public names (global variables initialized)")
	comdef := flag.Bool("c", false, "export communal names (global variables uninitialized)")
	extdef := flag.Bool("e", false, "emit external names as comments")
	flag.Var(&cfg.extracts, "x", "extract module name[=newname] from the given libraries (repeatable)")
	flag.BoolVar(&cfg.modules, "m", false, "list the modules of the given libraries")
	logLevel := flag.String("log-level", "INFO", "log level (DEBUG, INFO, NOOP)")

	flag.Parse()
	cfg.files = flag.Args()

	if *pubdef {
		cfg.requested |= omflib.Pubdef
	}
	if *comdef {
		cfg.requested |= omflib.Comdef
	}
	if *extdef {
		cfg.requested |= omflib.Extdef
	}

	if len(cfg.files) == 0 && cfg.objList == "" && cfg.libList == "" {
		flag.Usage()
		return
	}
	for _, f := range cfg.files {
		if !utils.HasSuffixFold(f, ".obj") && !utils.HasSuffixFold(f, ".lib") {
			fmt.Fprintf(os.Stderr, "%s is neither an .OBJ nor a .LIB file\n", f)
			flag.Usage()
			return
		}
	}

	logger.New(*logLevel)
	ok = true

	return
}

// makeDef - Processes all files and writes the .DEF file, or the diff against an existing one
func makeDef(cfg config, log logger.Logger) (err error) {
	var def bytes.Buffer

	session := omflib.NewSession(omflib.SessionConfig{LibraryName: cfg.libraryName}, &def, log)
	defer session.Close()

	if cfg.objList != "" {
		err = forEachListed(cfg.objList, func(path string) error {
			_, pErr := session.ProcessObjectFile(path, cfg.requested)
			return pErr
		})
		if err != nil {
			return
		}
	}

	if cfg.libList != "" {
		err = forEachListed(cfg.libList, func(path string) error {
			_, pErr := session.ProcessLibraryFile(path)
			return pErr
		})
		if err != nil {
			return
		}
	}

	for _, path := range cfg.files {
		if utils.HasSuffixFold(path, ".obj") {
			_, err = session.ProcessObjectFile(path, cfg.requested)
		} else {
			_, err = session.ProcessLibraryFile(path)
		}
		if err != nil {
			return
		}
	}

	if cfg.diffFile != "" {
		err = printDiff(cfg.diffFile, def.String(), os.Stdout)
		if err != nil || cfg.defFile == "" {
			return
		}
	}

	if cfg.defFile == "" {
		_, err = os.Stdout.Write(def.Bytes())
		return
	}

	err = os.WriteFile(cfg.defFile, def.Bytes(), 0644)
	if err != nil {
		err = fmt.Errorf("open error: definition file %s: %w", cfg.defFile, err)
	}

	return
}

// printDiff - Writes the diff from the existing .DEF file to the generated text
func printDiff(existingPath, generated string, w io.Writer) error {
	existing, err := os.ReadFile(existingPath)
	if err != nil {
		return fmt.Errorf("error while reading %s: %w", existingPath, err)
	}

	diff, err := deffile.Diff(existingPath, string(existing), "generated", generated)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, diff)

	return err
}

// libraryTool - Lists and extracts modules of the given libraries
func libraryTool(cfg config, sink *output.Sink, log logger.Logger) (err error) {
	for _, path := range cfg.files {
		if !utils.HasSuffixFold(path, ".lib") {
			err = sink.Warningf("%s is not a library, skipped\n", path)
			if err != nil {
				return
			}
			continue
		}

		err = libraryFile(path, cfg, sink, log)
		if err != nil {
			return
		}
	}

	return
}

// libraryFile - Lists and extracts modules of one library
func libraryFile(path string, cfg config, sink *output.Sink, log logger.Logger) (err error) {
	lib, err := omflib.OpenLibrary(path, log)
	if err != nil {
		return
	}
	defer func(lib *omflib.Library) { _ = lib.Close() }(lib)

	if cfg.modules {
		modules, mErr := lib.Modules()
		if mErr != nil {
			return mErr
		}

		err = sink.Messagef("; LIB-file: %s\n", path)
		if err != nil {
			return
		}
		for _, m := range modules {
			err = sink.Messagef("%08X\t%s\t%s\n", m.FilePos, m.Name, m.StoredName)
			if err != nil {
				return
			}
		}
	}

	for _, x := range cfg.extracts {
		name, newName, _ := strings.Cut(x, "=")

		extracted, xErr := lib.ExtractModule(name, newName)
		if xErr != nil {
			return xErr
		}

		if extracted {
			err = sink.Messagef("Extracted %s from %s\n", name, path)
		} else {
			err = sink.Warningf("Module %s not found in %s\n", name, path)
		}
		if err != nil {
			return
		}
	}

	return
}

// forEachListed - Calls fn for every non empty line of a list file
func forEachListed(listPath string, fn func(path string) error) (err error) {
	f, err := os.Open(listPath)
	if err != nil {
		err = fmt.Errorf("open error: list file %s: %w", listPath, err)
		return
	}
	defer func(f *os.File) { _ = f.Close() }(f)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err = fn(line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()

	return
}
