package omf

import (
	"fmt"
	"github.com/gostonefire/omflib/internal/conf"
)

// RecordKind - Closed enumeration of the record types this package knows about.
// Anything else is KindUnknown and gets skipped by its declared length.
type RecordKind int

const (
	KindUnknown RecordKind = iota
	KindTHEADR
	KindComment
	KindModEnd
	KindExtdef
	KindPubdef
	KindPubdef32
	KindComdef
	KindLibHeader
	KindDictMarker
)

// KindOf - Maps a raw record type byte to its RecordKind
func KindOf(recType uint8) RecordKind {
	switch recType {
	case conf.THEADR:
		return KindTHEADR
	case conf.COMENT, conf.COMENT + 1:
		return KindComment
	case conf.MODEND, conf.MODEND32:
		return KindModEnd
	case conf.EXTDEF:
		return KindExtdef
	case conf.PUBDEF:
		return KindPubdef
	case conf.PUBDEF32:
		return KindPubdef32
	case conf.COMDEF:
		return KindComdef
	case conf.LIBHEADER:
		return KindLibHeader
	case conf.MARKERRECORD:
		return KindDictMarker
	default:
		return KindUnknown
	}
}

// String - Returns the conventional record name
func (K RecordKind) String() string {
	switch K {
	case KindTHEADR:
		return "THEADR"
	case KindComment:
		return "COMENT"
	case KindModEnd:
		return "MODEND"
	case KindExtdef:
		return "EXTDEF"
	case KindPubdef:
		return "PUBDEF"
	case KindPubdef32:
		return "PUBDEF32"
	case KindComdef:
		return "COMDEF"
	case KindLibHeader:
		return "LIBHDR"
	case KindDictMarker:
		return "DICTMARKER"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(K))
	}
}
