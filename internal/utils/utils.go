package utils

import "strings"

// maxLibraryNameLength - Default library names are cut to this many characters
const maxLibraryNameLength = 8

// EqualSymbol - Returns true if a and b are equal both in size and contents.
// When caseSensitive is false ASCII letters compare equal regardless of case.
func EqualSymbol(a, b []byte, caseSensitive bool) bool {
	lenA := len(a)
	if lenA != len(b) {
		return false
	}

	for i := 0; i < lenA; i++ {
		if a[i] == b[i] {
			continue
		}
		if caseSensitive || lower(a[i]) != lower(b[i]) {
			return false
		}
	}

	return true
}

// StripExtension - Removes everything from the last '.' of name
func StripExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}

	return name
}

// DefaultLibraryName - Returns the library name derived from a file path: the base name up to the first '.',
// at most 8 characters. Both '/' and '\' count as directory separators.
func DefaultLibraryName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[:i]
	}
	if len(path) > maxLibraryNameLength {
		path = path[:maxLibraryNameLength]
	}

	return path
}

// HasSuffixFold - Returns true if name ends with suffix, ignoring ASCII case
func HasSuffixFold(name, suffix string) bool {
	return len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// lower - Returns the lower case of an ASCII letter, any other byte is returned as is
func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}
