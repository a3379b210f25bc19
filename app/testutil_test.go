package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// buildPage lays out a single page's bytes: a leaf or interior header at
// headerOffset, then cells packed from the end of the page backward (as
// SQLite does), with the cell-pointer array placed right after the header
// in the given order (already key-ordered by the caller).
func buildPage(pageSize, headerOffset int, pageType byte, cells [][]byte, rightChild uint32) []byte {
	buf := make([]byte, pageSize)
	h := headerOffset
	buf[h] = pageType
	binary.BigEndian.PutUint16(buf[h+3:h+5], uint16(len(cells)))

	headerLen := leafHeaderLength
	if !isLeafPageType(pageType) {
		headerLen = interiorHeaderLength
		binary.BigEndian.PutUint32(buf[h+8:h+12], rightChild)
	}

	ptrOff := h + headerLen
	contentStart := pageSize
	for i, cell := range cells {
		contentStart -= len(cell)
		copy(buf[contentStart:], cell)
		binary.BigEndian.PutUint16(buf[ptrOff+i*2:ptrOff+i*2+2], uint16(contentStart))
	}
	binary.BigEndian.PutUint16(buf[h+5:h+7], uint16(contentStart))
	return buf
}

// writeTempDB assembles pages (1-indexed) into a temp file with a valid
// 100-byte database header and returns the opened Pager.
func writeTempDB(t *testing.T, pageSize int, pages map[int][]byte, opts ...PagerOption) *Pager {
	t.Helper()

	numPages := 0
	for n := range pages {
		if n > numPages {
			numPages = n
		}
	}

	full := make([]byte, pageSize*numPages)
	for n, data := range pages {
		copy(full[(n-1)*pageSize:], data)
	}

	copy(full[:16], magicString)
	binary.BigEndian.PutUint16(full[16:18], uint16(pageSize))
	binary.BigEndian.PutUint32(full[28:32], uint32(numPages))

	path := filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(path, full, 0o600); err != nil {
		t.Fatalf("writing temp db: %v", err)
	}

	pager, err := OpenPager(path, opts...)
	if err != nil {
		t.Fatalf("OpenPager() error = %v", err)
	}
	t.Cleanup(func() { pager.Close() })
	return pager
}
