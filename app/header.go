package main

import (
	"bytes"
	"encoding/binary"
)

const (
	headerSize  = 100
	magicString = "SQLite format 3\x00"
)

// DbHeader is the parsed 100-byte prefix of a SQLite database file.
type DbHeader struct {
	PageSize             int
	ReservedBytesPerPage uint8
	NumPages             uint32
}

// parseDbHeader validates the magic string and page-size encoding and
// extracts the fields this reader cares about. buf must be at least
// headerSize bytes.
func parseDbHeader(buf []byte) (*DbHeader, error) {
	if len(buf) < headerSize {
		return nil, invalidDbHeader("header shorter than 100 bytes")
	}
	if !bytes.Equal(buf[:16], []byte(magicString)) {
		return nil, invalidDbHeader("missing \"SQLite format 3\\0\" magic")
	}

	raw := binary.BigEndian.Uint16(buf[16:18])
	pageSize, err := decodePageSize(raw)
	if err != nil {
		return nil, err
	}

	return &DbHeader{
		PageSize:             pageSize,
		ReservedBytesPerPage: buf[20],
		NumPages:             binary.BigEndian.Uint32(buf[28:32]),
	}, nil
}

// decodePageSize applies SQLite's page-size encoding: the raw u16 is the
// page size itself except that 1 encodes 65536, and the result must be a
// power of two in [512, 65536].
func decodePageSize(raw uint16) (int, error) {
	pageSize := int(raw)
	if raw == 1 {
		pageSize = 65536
	}
	if pageSize < 512 || pageSize > 65536 || pageSize&(pageSize-1) != 0 {
		return 0, invalidDbHeader("page size is not a power of two in [512, 65536]")
	}
	return pageSize, nil
}
