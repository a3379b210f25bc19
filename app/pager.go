package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Pager owns the database file handle and serves page-sized byte buffers
// indexed from 1. It is single-threaded cooperative: the only shared
// mutable state is the file cursor, serialized by mu.
type Pager struct {
	mu     sync.Mutex
	file   *os.File
	header *DbHeader
	cache  map[int][]byte
	cfg    *pagerConfig
	res    *resourceManager
}

// OpenPager opens path, parses its 100-byte header, and returns a Pager
// ready to serve pages. The returned error is not recoverable by the
// caller beyond reporting it; nothing is retried.
func OpenPager(path string, opts ...PagerOption) (*Pager, error) {
	cfg := defaultPagerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO("open database file", err)
	}

	res := newResourceManager()
	res.add(f)

	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		res.close()
		return nil, invalidDbHeader(fmt.Sprintf("reading 100-byte header: %v", err))
	}

	header, err := parseDbHeader(buf)
	if err != nil {
		res.close()
		return nil, err
	}

	p := &Pager{file: f, header: header, cfg: cfg, res: res}
	if cfg.pageCacheSize > 0 {
		p.cache = make(map[int][]byte, cfg.pageCacheSize)
		res.addCleaner(func() error {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.cache = nil
			return nil
		})
	}
	return p, nil
}

// Header returns the parsed database header. Immutable after Open.
func (p *Pager) Header() *DbHeader {
	return p.header
}

// GetPage returns the raw bytes of 1-indexed page n. The pager never
// mutates the returned slice, so it is safe to sub-slice and retain; with
// the page cache enabled, repeated calls for a cached page return the same
// shared slice.
func (p *Pager) GetPage(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || uint32(n) > p.header.NumPages {
		return nil, wrapIO("read page", fmt.Errorf("page %d out of range [1, %d]", n, p.header.NumPages))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cache != nil {
		if buf, ok := p.cache[n]; ok {
			return buf, nil
		}
	}

	offset := int64(n-1) * int64(p.header.PageSize)
	buf := make([]byte, p.header.PageSize)
	if _, err := p.file.ReadAt(buf, offset); err != nil {
		return nil, wrapIO(fmt.Sprintf("read page %d", n), err)
	}

	if p.cache != nil && len(p.cache) < p.cfg.pageCacheSize {
		p.cache[n] = buf
	}
	return buf, nil
}

// Close releases the underlying file handle.
func (p *Pager) Close() error {
	return p.res.close()
}
