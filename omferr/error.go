package omferr

import (
	"errors"
	"fmt"
)

// MalformedHeader - Custom error to inform that a library header, dictionary marker or record header is not
// what the format requires
type MalformedHeader struct {
	msg string
}

// NewMalformedHeader - Returns a MalformedHeader with a formatted message
func NewMalformedHeader(format string, args ...any) MalformedHeader {
	return MalformedHeader{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify that a header is malformed
func (E MalformedHeader) Error() string {
	if E.msg == "" {
		return "malformed header"
	}
	return E.msg
}

// TruncatedRecord - Custom error to inform that a record's length budget was exhausted in the middle of a field
type TruncatedRecord struct {
	msg string
}

// NewTruncatedRecord - Returns a TruncatedRecord with a formatted message
func NewTruncatedRecord(format string, args ...any) TruncatedRecord {
	return TruncatedRecord{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify that a record is truncated
func (E TruncatedRecord) Error() string {
	if E.msg == "" {
		return "unexpected end of record"
	}
	return E.msg
}

// UnexpectedEOF - Custom error to inform that the stream ended in the middle of a record or before its checksum
type UnexpectedEOF struct {
	msg string
}

// NewUnexpectedEOF - Returns an UnexpectedEOF with a formatted message
func NewUnexpectedEOF(format string, args ...any) UnexpectedEOF {
	return UnexpectedEOF{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify that the stream ended too early
func (E UnexpectedEOF) Error() string {
	if E.msg == "" {
		return "unexpected end of file"
	}
	return E.msg
}

// SeekFailure - Custom error to inform that positioning in the underlying file failed
type SeekFailure struct {
	msg string
}

// NewSeekFailure - Returns a SeekFailure with a formatted message
func NewSeekFailure(format string, args ...any) SeekFailure {
	return SeekFailure{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify that a seek failed
func (E SeekFailure) Error() string {
	if E.msg == "" {
		return "seek failure"
	}
	return E.msg
}

// UnsupportedDataSegmentTag - Custom error to inform that a COMDEF entry carries an unknown data segment type
type UnsupportedDataSegmentTag struct {
	msg string
}

// NewUnsupportedDataSegmentTag - Returns an UnsupportedDataSegmentTag with a formatted message
func NewUnsupportedDataSegmentTag(format string, args ...any) UnsupportedDataSegmentTag {
	return UnsupportedDataSegmentTag{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify an unknown data segment type
func (E UnsupportedDataSegmentTag) Error() string {
	if E.msg == "" {
		return "unexpected data segment type"
	}
	return E.msg
}

// ModuleNotFound - Custom error to inform that a symbol or module was not found in the symbol dictionary.
// This is the only recoverable error kind.
type ModuleNotFound struct {
	msg string
}

// NewModuleNotFound - Returns a ModuleNotFound with a formatted message
func NewModuleNotFound(format string, args ...any) ModuleNotFound {
	return ModuleNotFound{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify that nothing was found
func (E ModuleNotFound) Error() string {
	if E.msg == "" {
		return "module not found"
	}
	return E.msg
}

// ProbingAlgorithm - Custom error to inform that a hash algorithm produced probe values outside the dictionary
type ProbingAlgorithm struct {
	msg string
}

// NewProbingAlgorithm - Returns a ProbingAlgorithm with a formatted message
func NewProbingAlgorithm(format string, args ...any) ProbingAlgorithm {
	return ProbingAlgorithm{msg: fmt.Sprintf(format, args...)}
}

// Error - Used to notify a misbehaving probing algorithm
func (P ProbingAlgorithm) Error() string {
	if P.msg == "" {
		return "probing algorithm out of range"
	}
	return P.msg
}

// IsNotFound - Returns true if err is, or wraps, a ModuleNotFound
func IsNotFound(err error) bool {
	var nf ModuleNotFound
	return errors.As(err, &nf)
}

// IsFatal - Returns true for every non nil error except ModuleNotFound
func IsFatal(err error) bool {
	return err != nil && !IsNotFound(err)
}
