package main

import "encoding/binary"

const (
	leafHeaderLength     = 8
	interiorHeaderLength = 12

	pageTypeInteriorIndex byte = 0x02
	pageTypeInteriorTable byte = 0x05
	pageTypeLeafIndex     byte = 0x0a
	pageTypeLeafTable     byte = 0x0d
)

// isLeafPageType reports whether a page-type byte marks a leaf page, per
// the 0x08 bit convention shared by both table and index pages.
func isLeafPageType(b byte) bool {
	return b&0x08 == 0x08
}

// isLegalPageType reports whether b is one of the four page-type bytes
// SQLite actually emits. Per SPEC_FULL.md §7, any other byte is a fatal
// parse error rather than something to guess at.
func isLegalPageType(b byte) bool {
	switch b {
	case pageTypeInteriorIndex, pageTypeInteriorTable, pageTypeLeafIndex, pageTypeLeafTable:
		return true
	default:
		return false
	}
}

// page is a typed view over a page-sized buffer. It never copies; every
// accessor slices the buffer it was built from.
type page struct {
	data         []byte
	headerOffset int
	headerLength int
}

func newPage(data []byte, headerOffset, headerLength int) *page {
	return &page{data: data, headerOffset: headerOffset, headerLength: headerLength}
}

func (p *page) header() []byte {
	return p.data[p.headerOffset : p.headerOffset+p.headerLength]
}

func (p *page) pageType() byte {
	return p.header()[0]
}

func (p *page) isLeaf() bool {
	return isLeafPageType(p.pageType())
}

func (p *page) firstFreeblockOffset() uint16 {
	return binary.BigEndian.Uint16(p.header()[1:3])
}

// len returns the page's cell count N.
func (p *page) len() int {
	return int(binary.BigEndian.Uint16(p.header()[3:5]))
}

func (p *page) cellContentOffset() int {
	v := binary.BigEndian.Uint16(p.header()[5:7])
	if v == 0 {
		return 65536
	}
	return int(v)
}

func (p *page) fragmentedFreeBytes() uint8 {
	return p.header()[7]
}

// right returns the rightmost-child page number. Only meaningful for
// interior pages (headerLength == interiorHeaderLength).
func (p *page) right() uint32 {
	return binary.BigEndian.Uint32(p.header()[8:12])
}

func (p *page) cellPointers() []byte {
	off := p.headerOffset + p.headerLength
	return p.data[off : off+p.len()*2]
}

// cell returns a slice starting at the i-th cell body, running to the end
// of the page buffer. i must be in [0, len()); out of range is a
// programming error, not a recoverable one.
func (p *page) cell(i int) []byte {
	if i < 0 || i >= p.len() {
		panic("page: cell index out of range")
	}
	ptrs := p.cellPointers()
	offset := int(binary.BigEndian.Uint16(ptrs[i*2 : i*2+2]))
	return p.data[offset:]
}

// validateStrict checks the invariants from SPEC_FULL.md §3 beyond what
// correct operation requires to notice: that the cell-pointer array fits
// between the header and the content area, and that every pointer actually
// lands inside the content area. Run only under ValidationStrict — the
// cursor's own bounds-checked slicing already fails safely without it.
func (p *page) validateStrict() error {
	ptrArrayEnd := p.headerOffset + p.headerLength + p.len()*2
	if ptrArrayEnd > p.cellContentOffset() {
		return newDatabaseError(KindInvalidDbHeader, "validate page", "cell-pointer array overlaps content area", nil, map[string]interface{}{"n": p.len()})
	}
	if ptrArrayEnd > len(p.data) {
		return newDatabaseError(KindInvalidDbHeader, "validate page", "cell-pointer array runs past end of page", nil, nil)
	}
	ptrs := p.cellPointers()
	for i := 0; i < p.len(); i++ {
		off := int(binary.BigEndian.Uint16(ptrs[i*2 : i*2+2]))
		if off < p.cellContentOffset() || off >= len(p.data) {
			return newDatabaseError(KindInvalidDbHeader, "validate page", "cell pointer out of bounds", nil, map[string]interface{}{"index": i, "offset": off})
		}
	}
	return nil
}
