package library

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/gostonefire/omflib/internal/conf"
	"github.com/gostonefire/omflib/internal/omf"
	"github.com/gostonefire/omflib/omferr"
	"io"
	"os"
	"path/filepath"
)

// CopyModule - Copies the object module at pos to dst as a standalone object module.
// Records are copied byte for byte except LIBMOD comments, which only make sense inside a library.
// Copying stops after the MODEND record.
func (F *File) CopyModule(dst io.Writer, pos int64) (err error) {
	var written, skipped int

	err = F.reader.Seek(pos)
	if err != nil {
		err = omferr.NewSeekFailure("Seek failure to file position %d: %s", pos, err)
		return
	}

	for {
		header, rErr := F.reader.ReadHeader()
		if rErr != nil {
			err = rErr
			if errors.Is(err, io.EOF) {
				err = omferr.NewUnexpectedEOF("unexpected EOF in module at %d before MODEND", pos)
			}
			return
		}

		length := int64(header.Length)
		var prefix []byte

		if header.Type == conf.COMENT && length >= 2 {
			prefix = make([]byte, 2)
			err = F.reader.ReadFull(prefix)
			if err != nil {
				return
			}

			if prefix[1] == conf.LIBMOD {
				err = F.reader.Skip(length - 2)
				if err != nil {
					return
				}
				skipped++
				continue
			}
		}

		_, err = dst.Write(append(omf.RecordHeaderToBytes(header), prefix...))
		if err != nil {
			err = fmt.Errorf("error while writing object module: %w", err)
			return
		}

		err = F.reader.CopyN(dst, length-int64(len(prefix)))
		if err != nil {
			return
		}
		written++

		if omf.KindOf(header.Type) == omf.KindModEnd {
			break
		}
	}

	F.log.Debugf("copied module at %d: %d records written, %d LIBMOD records dropped", pos, written, skipped)

	return
}

// ExtractModule - Writes the named module to a standalone object file.
// The file is written under a temporary name in the target directory and renamed when complete.
//   - name is the module name, with or without extension
//   - newName is the file to write, name is used if it is empty
//
// It returns:
//   - extracted is false if the module isn't in the library, which is not an error
//   - err is any error from reading the library or writing the object file
func (F *File) ExtractModule(name, newName string) (extracted bool, err error) {
	entry, err := F.FindModule(name)
	if err != nil {
		if omferr.IsNotFound(err) {
			err = nil
		}
		return
	}

	target := newName
	if target == "" {
		target = name
	}

	tmp := filepath.Join(filepath.Dir(target), fmt.Sprintf(".tmp-%s-%s", filepath.Base(target), uuid.NewString()))
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		err = fmt.Errorf("open failure new module %s: %w", target, err)
		return
	}

	err = F.CopyModule(f, entry.ModuleFilePos)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return
	}

	err = f.Close()
	if err != nil {
		_ = os.Remove(tmp)
		err = fmt.Errorf("error while closing %s: %w", tmp, err)
		return
	}

	err = os.Rename(tmp, target)
	if err != nil {
		_ = os.Remove(tmp)
		err = fmt.Errorf("error while renaming %s to %s: %w", tmp, target, err)
		return
	}

	F.log.Infof("extracted module %s to %s", name, target)
	extracted = true

	return
}
