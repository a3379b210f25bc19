package main

import "context"

// Cell is anything exposing a B-tree key of type K.
type Cell[K any] interface {
	Key() K
}

// InteriorCell additionally exposes the left-child page number an interior
// cell routes to.
type InteriorCell[K any] interface {
	Cell[K]
	Left() uint32
}

// pageIterState is an in-progress sequential scan over one page's cells,
// decoding lazily as the cursor advances.
type pageIterState[C any] struct {
	pg     *page
	idx    int
	decode func([]byte) (C, error)
}

func (s *pageIterState[C]) next() (C, bool, error) {
	var zero C
	if s.idx >= s.pg.len() {
		return zero, false, nil
	}
	buf := s.pg.cell(s.idx)
	c, err := s.decode(buf)
	s.idx++
	if err != nil {
		return zero, false, err
	}
	return c, true, nil
}

// Cursor is a generic depth-first B-tree traversal parameterized by the
// interior-cell type I, the leaf-cell type L (both keyed by K), and a range
// predicate. It implements the algorithm in SPEC_FULL.md §4.7: a stack of
// in-progress interior scans (with sentinel frames marking a descended
// right-child), an optional current leaf scan, and the last comparison
// result.
type Cursor[K any, I InteriorCell[K], L Cell[K]] struct {
	ctx    context.Context
	pager  *Pager
	pred   Predicate[K]
	decI   func([]byte) (I, error)
	decL   func([]byte) (L, error)

	interiors []*pageIterState[I] // nil entry == sentinel
	leaf      *pageIterState[L]
	lastCmp   RangeComparison
	err       error
}

// newCursor constructs a cursor rooted at rootPage and performs the initial
// descent.
func newCursor[K any, I InteriorCell[K], L Cell[K]](
	ctx context.Context,
	pager *Pager,
	rootPage int,
	decodeInterior func([]byte) (I, error),
	decodeLeaf func([]byte) (L, error),
	pred Predicate[K],
) *Cursor[K, I, L] {
	c := &Cursor[K, I, L]{
		ctx:     ctx,
		pager:   pager,
		pred:    pred,
		decI:    decodeInterior,
		decL:    decodeLeaf,
		lastCmp: InRange,
	}
	c.descend(rootPage)
	return c
}

func (c *Cursor[K, I, L]) descend(pageNum int) {
	if c.err != nil {
		return
	}
	buf, err := c.pager.GetPage(c.ctx, pageNum)
	if err != nil {
		c.err = err
		return
	}
	headerOffset := 0
	if pageNum == 1 {
		headerOffset = headerSize
	}
	if len(buf) <= headerOffset {
		c.err = invalidDbHeader("page shorter than its header offset")
		return
	}

	typeByte := buf[headerOffset]
	if !isLegalPageType(typeByte) {
		c.err = newDatabaseError(KindInvalidDbHeader, "classify page", "unrecognized page-type byte", nil, map[string]interface{}{"page": pageNum, "type": typeByte})
		return
	}

	var pg *page
	if isLeafPageType(typeByte) {
		pg = newPage(buf, headerOffset, leafHeaderLength)
	} else {
		pg = newPage(buf, headerOffset, interiorHeaderLength)
	}
	if c.pager.cfg.validationMode == ValidationStrict {
		if err := pg.validateStrict(); err != nil {
			c.err = err
			return
		}
	}

	if pg.isLeaf() {
		c.leaf = &pageIterState[L]{pg: pg, decode: c.decL}
		return
	}
	c.interiors = append(c.interiors, &pageIterState[I]{pg: pg, decode: c.decI})
}

// Next returns the next leaf cell in ascending key order, or ok==false when
// the traversal is exhausted. A non-nil error is terminal: the cursor must
// not be stepped again.
func (c *Cursor[K, I, L]) Next() (L, bool, error) {
	var zero L
	for {
		if c.err != nil {
			return zero, false, c.err
		}

		if c.leaf != nil {
			cell, ok, err := c.leaf.next()
			if err != nil {
				c.err = err
				return zero, false, err
			}
			if !ok {
				c.leaf = nil
				continue
			}
			cmp, err := c.pred.Compare(cell.Key())
			if err != nil {
				c.err = err
				return zero, false, err
			}
			c.lastCmp = cmp
			switch cmp {
			case Less:
				continue
			case InRange:
				return cell, true, nil
			case UpperBoundary:
				c.leaf = nil
				return cell, true, nil
			default: // Greater
				c.leaf = nil
				continue
			}
		}

		if len(c.interiors) == 0 {
			return zero, false, nil
		}

		top := c.interiors[len(c.interiors)-1]
		if top == nil {
			c.interiors = c.interiors[:len(c.interiors)-1]
			continue
		}

		cell, ok, err := top.next()
		if err != nil {
			c.err = err
			return zero, false, err
		}
		if ok {
			cmp, err := c.pred.Compare(cell.Key())
			if err != nil {
				c.err = err
				return zero, false, err
			}
			c.lastCmp = cmp
			// An interior cell's key is the maximum key of its left subtree,
			// so Greater does not rule that subtree out: the probed key can
			// still be smaller than this cell's key and larger than every
			// key visited so far. Only Less is conclusive — the entire left
			// subtree sits below the probe and can be skipped.
			if cmp != Less {
				c.descend(int(cell.Left()))
			}
			continue
		}

		// Interior exhausted: pop it and decide whether its right-child
		// could still hold in-range keys.
		c.interiors = c.interiors[:len(c.interiors)-1]
		if c.lastCmp == UpperBoundary || c.lastCmp == Greater {
			continue
		}
		right := top.pg.right()
		c.interiors = append(c.interiors, nil) // sentinel
		c.descend(int(right))
	}
}
