package main

import "testing"

func TestAllAlwaysInRange(t *testing.T) {
	p := All[uint64]{}
	for _, k := range []uint64{0, 1, 1000} {
		cmp, err := p.Compare(k)
		if err != nil || cmp != InRange {
			t.Errorf("Compare(%d) = %v, %v, want InRange, nil", k, cmp, err)
		}
	}
}

func TestOnePredicate(t *testing.T) {
	p := NewOne(uint64(5), CompareUint64)
	cases := []struct {
		key  uint64
		want RangeComparison
	}{
		{3, Less},
		{5, UpperBoundary},
		{7, Greater},
	}
	for _, c := range cases {
		got, err := p.Compare(c.key)
		if err != nil || got != c.want {
			t.Errorf("Compare(%d) = %v, %v, want %v", c.key, got, err, c.want)
		}
	}
}

func TestGtEqPredicate(t *testing.T) {
	p := NewGtEq(uint64(5), CompareUint64)
	cases := []struct {
		key  uint64
		want RangeComparison
	}{
		{3, Less},
		{5, InRange},
		{7, InRange},
	}
	for _, c := range cases {
		got, err := p.Compare(c.key)
		if err != nil || got != c.want {
			t.Errorf("Compare(%d) = %v, %v, want %v", c.key, got, err, c.want)
		}
	}
}

func intFieldRecord(vals ...int64) *Record {
	fields := make([]Field, len(vals))
	for i, v := range vals {
		fields[i] = encodeIntegerField(v)
	}
	return &Record{fields: fields}
}

func TestPrefixPredicate(t *testing.T) {
	stored := intFieldRecord(1, 2)

	exact := NewPrefix(intFieldRecord(1, 2))
	cmp, err := exact.Compare(stored)
	if err != nil || cmp != UpperBoundary {
		t.Errorf("exact match Compare() = %v, %v, want UpperBoundary", cmp, err)
	}

	partial := NewPrefix(intFieldRecord(1))
	cmp, err = partial.Compare(stored)
	if err != nil || cmp != InRange {
		t.Errorf("partial match Compare() = %v, %v, want InRange", cmp, err)
	}

	less := NewPrefix(intFieldRecord(9))
	cmp, err = less.Compare(stored)
	if err != nil || cmp != Less {
		t.Errorf("less Compare() = %v, %v, want Less", cmp, err)
	}

	greater := NewPrefix(intFieldRecord(0))
	cmp, err = greater.Compare(stored)
	if err != nil || cmp != Greater {
		t.Errorf("greater Compare() = %v, %v, want Greater", cmp, err)
	}
}

func TestPrefixPredicateRejectsLongerProbe(t *testing.T) {
	stored := intFieldRecord(1)
	p := NewPrefix(intFieldRecord(1, 2))
	if _, err := p.Compare(stored); err == nil {
		t.Error("Compare() with probe longer than stored key should error")
	}
}

func TestCompareRecordKeysShorterIsLess(t *testing.T) {
	a := intFieldRecord(1)
	b := intFieldRecord(1, 2)
	if c := CompareRecordKeys(a, b); c >= 0 {
		t.Errorf("CompareRecordKeys() = %d, want negative", c)
	}
}

func TestCompareRecordKeysOrdersNumerically(t *testing.T) {
	if c := CompareRecordKeys(intFieldRecord(1, 1), intFieldRecord(1, 2)); c >= 0 {
		t.Errorf("CompareRecordKeys() = %d, want negative", c)
	}
	if c := CompareRecordKeys(intFieldRecord(2, 1), intFieldRecord(1, 9)); c <= 0 {
		t.Errorf("CompareRecordKeys() = %d, want positive", c)
	}
}
