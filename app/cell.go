package main

import "encoding/binary"

// tableLeafCell is a table B-tree leaf cell: varint payload length, varint
// row-id, then a Record. Its key is the row-id.
type tableLeafCell struct {
	rowID  uint64
	record *Record
}

func (c *tableLeafCell) Key() uint64 { return c.rowID }

func decodeTableLeafCell(buf []byte) (*tableLeafCell, error) {
	payloadLen, n1, err := readVarint(buf)
	if err != nil {
		return nil, err
	}
	rowID, n2, err := readVarint(buf[n1:])
	if err != nil {
		return nil, err
	}
	off := n1 + n2
	if off+int(payloadLen) > len(buf) {
		payloadLen = uint64(len(buf) - off)
	}
	rec, err := decodeRecord(buf[off : off+int(payloadLen)])
	if err != nil {
		return nil, err
	}
	return &tableLeafCell{rowID: rowID, record: rec}, nil
}

// tableInteriorCell is a table B-tree interior cell: big-endian u32
// left-child, then varint row-id. Its key is the row-id, which is the
// maximum key of its left subtree.
type tableInteriorCell struct {
	rowID uint64
	left  uint32
}

func (c *tableInteriorCell) Key() uint64  { return c.rowID }
func (c *tableInteriorCell) Left() uint32 { return c.left }

func decodeTableInteriorCell(buf []byte) (*tableInteriorCell, error) {
	left := binary.BigEndian.Uint32(buf[0:4])
	rowID, _, err := readVarint(buf[4:])
	if err != nil {
		return nil, err
	}
	return &tableInteriorCell{rowID: rowID, left: left}, nil
}

// indexLeafCell is an index B-tree leaf cell: varint payload length, then a
// Record. Its key is the record itself.
type indexLeafCell struct {
	record *Record
}

func (c *indexLeafCell) Key() *Record { return c.record }

func decodeIndexLeafCell(buf []byte) (*indexLeafCell, error) {
	payloadLen, n, err := readVarint(buf)
	if err != nil {
		return nil, err
	}
	if n+int(payloadLen) > len(buf) {
		payloadLen = uint64(len(buf) - n)
	}
	rec, err := decodeRecord(buf[n : n+int(payloadLen)])
	if err != nil {
		return nil, err
	}
	return &indexLeafCell{record: rec}, nil
}

// indexInteriorCell is an index B-tree interior cell: big-endian u32
// left-child, varint payload length, then a Record. The payload length is
// the cell's own varint, never the record header's internal size field —
// the two are not guaranteed equal (SPEC_FULL.md §9).
type indexInteriorCell struct {
	record *Record
	left   uint32
}

func (c *indexInteriorCell) Key() *Record { return c.record }
func (c *indexInteriorCell) Left() uint32 { return c.left }

func decodeIndexInteriorCell(buf []byte) (*indexInteriorCell, error) {
	left := binary.BigEndian.Uint32(buf[0:4])
	payloadLen, n, err := readVarint(buf[4:])
	if err != nil {
		return nil, err
	}
	off := 4 + n
	if off+int(payloadLen) > len(buf) {
		payloadLen = uint64(len(buf) - off)
	}
	rec, err := decodeRecord(buf[off : off+int(payloadLen)])
	if err != nil {
		return nil, err
	}
	return &indexInteriorCell{record: rec, left: left}, nil
}
