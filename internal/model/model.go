package model

// SymbolFlag - Bit mask describing in which record kinds a symbol was seen
type SymbolFlag uint8

const (
	// Extdef - the symbol is referenced externally
	Extdef SymbolFlag = 0x01
	// Pubdef - the symbol is publicly defined
	Pubdef SymbolFlag = 0x02
	// Comdef - the symbol is a communal (uninitialized global)
	Comdef SymbolFlag = 0x04
	// Written - the communal has already been reported once in this run
	Written SymbolFlag = 0x10
)

// Has - Returns true if all bits in f are set
func (S SymbolFlag) Has(f SymbolFlag) bool {
	return S&f == f
}

// RecordHeader - Represents the fixed header in front of every OMF record.
// Length counts from the byte after the length word through the checksum byte inclusive.
type RecordHeader struct {
	Type   uint8
	Length uint16
}

// LibraryHeader - Represents the library header record (F0) together with derived values
//   - PageSize is the stored value plus 3, which is also the offset of the first module
//   - DictionaryOffset is the file offset of the symbol dictionary
//   - NumDictBlocks is the number of 512 byte dictionary blocks
//   - IsCaseSensitive is bit 0 of Flags
//   - IsLIBMODFormat tells whether the first module carries a LIBMOD comment
type LibraryHeader struct {
	PageSize         int64
	DictionaryOffset int64
	NumDictBlocks    int64
	Flags            uint8
	IsCaseSensitive  bool
	IsLIBMODFormat   bool
}

// DictEntry - Represents one bucket of the symbol dictionary.
// Symbol is a copy of the name, so the entry stays valid when another block is cached.
type DictEntry struct {
	BlockNumber   int64
	BucketNumber  int64
	Symbol        []byte
	PageNumber    int64
	ModuleFilePos int64
	IsFound       bool
}
