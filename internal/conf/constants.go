package conf

// RecordHeaderLength - Length of an OMF record header: type byte and 16 bit length
const RecordHeaderLength int64 = 3

// ComentHeaderLength - Length of a COMENT record header: record header, attribute byte and comment class
const ComentHeaderLength int64 = 5

// ChecksumLength - Every OMF record ends with one checksum byte
const ChecksumLength int64 = 1

// Record types
const (
	THEADR       uint8 = 0x80
	COMENT       uint8 = 0x88
	MODEND       uint8 = 0x8A
	MODEND32     uint8 = 0x8B
	EXTDEF       uint8 = 0x8C
	PUBDEF       uint8 = 0x90
	PUBDEF32     uint8 = 0x91
	COMDEF       uint8 = 0xB0
	LIBHEADER    uint8 = 0xF0
	MARKERRECORD uint8 = 0xF1
)

// LIBMOD - Comment class of the library module name comment
const LIBMOD uint8 = 0xA3

// COMDEF data segment types
const (
	DataSegmentFar  uint8 = 0x61
	DataSegmentNear uint8 = 0x62
)

// Communal length escape codes, the leading byte announces 2, 3 or 4 further bytes
const (
	CommunalLength2 uint8 = 0x81
	CommunalLength3 uint8 = 0x84
	CommunalLength4 uint8 = 0x88
)

// LibHeaderLength - Length of the library header payload following the record type: page size (2),
// dictionary offset (4), number of dictionary blocks (2) and flags (1)
const LibHeaderLength int64 = 9

// PageSizeOffset - Library header offset to the page size - 2 bytes
const PageSizeOffset int64 = 0

// DictionaryOffsetOffset - Library header offset to the symbol dictionary file offset - 4 bytes
const DictionaryOffsetOffset int64 = 2

// NumDictBlocksOffset - Library header offset to the number of dictionary blocks - 2 bytes
const NumDictBlocksOffset int64 = 6

// FlagsOffset - Library header offset to the flags - 1 byte
const FlagsOffset int64 = 8

// PageSizeAdjustment - The stored page size excludes the header's own type byte, length word and checksum
const PageSizeAdjustment int64 = 3

// CaseSensitiveFlag - Library header flag bit telling that the dictionary is case-sensitive
const CaseSensitiveFlag uint8 = 0x01

// NumBuckets - Number of buckets in each symbol dictionary block
const NumBuckets int64 = 37

// DictBlockSize - Size in bytes of a symbol dictionary block
const DictBlockSize int64 = 512

// FreeSpaceOffset - Block offset to the free space cursor, directly after the bucket table
const FreeSpaceOffset int64 = 37

// DictBlockFull - Free space cursor value telling that a dictionary block is full
const DictBlockFull uint8 = 0xFF

// MaxDictBlocks - Largest number of dictionary blocks a library can have
const MaxDictBlocks int64 = 251

// ModuleNameSuffix - Module names are stored in the dictionary with this suffix
const ModuleNameSuffix byte = '!'
