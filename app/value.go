package main

import "strconv"

// CellValue is a single projected column value: either a Field sliced from
// a decoded record, or a literal row-id substituted in for an elided
// INTEGER PRIMARY KEY column (SPEC_FULL.md §9, "primary-key-as-row-id").
type CellValue struct {
	field  *Field
	rowID  *uint64
}

func fieldValue(f Field) CellValue   { return CellValue{field: &f} }
func rowIDValue(id uint64) CellValue { return CellValue{rowID: &id} }

func (v CellValue) IsNull() bool {
	if v.rowID != nil {
		return false
	}
	return v.field.IsNull()
}

func (v CellValue) AsInteger() (int64, error) {
	if v.rowID != nil {
		return int64(*v.rowID), nil
	}
	return v.field.AsInteger()
}

func (v CellValue) AsFloat() (float64, error) {
	if v.rowID != nil {
		return float64(*v.rowID), nil
	}
	return v.field.AsFloat()
}

func (v CellValue) AsText() (string, error) {
	if v.rowID != nil {
		return strconv.FormatUint(*v.rowID, 10), nil
	}
	return v.field.AsText()
}

func (v CellValue) AsBlob() ([]byte, error) {
	if v.rowID != nil {
		return nil, unexpectedType("CellValue.AsBlob", FieldBlob, FieldInteger)
	}
	return v.field.AsBlob()
}

// String renders the value the way the console formatter prints it: empty
// for null, otherwise its natural text representation.
func (v CellValue) String() string {
	if v.IsNull() {
		return ""
	}
	if v.rowID != nil {
		return strconv.FormatUint(*v.rowID, 10)
	}
	switch v.field.Kind() {
	case FieldInteger:
		n, _ := v.field.AsInteger()
		return strconv.FormatInt(n, 10)
	case FieldFloat:
		f, _ := v.field.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case FieldBlob:
		b, _ := v.field.AsBlob()
		return string(b)
	default:
		s, _ := v.field.AsText()
		return s
	}
}
