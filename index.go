package mih

import (
	"fmt"
	"math"
	"sync"
)

// maxAutoBlocks caps the auto-derived block count. spec.md §9 notes the
// round(b/log2(N)) formula is only lower-clamped to 2 and flags very small
// N with large b as "valid but pathological"; we additionally cap it here.
const maxAutoBlocks = 8

// Index implements multi-index hashing over a fixed database of T-width
// binary codes, following Norouzi, Punjani and Fleet's MIH technique. Once
// built it is read-only; searchers created from it hold their own scratch
// state and may be driven concurrently from multiple goroutines as long as
// each goroutine owns its own searcher.
type Index[T Word] struct {
	numBlocks int
	codes     []T
	tables    []*Table
	masks     []T
	begs      []int
}

// New builds an Index from codes, auto-deriving the block count as
// round(dimensions / log2(len(codes))), clamped to [2, maxAutoBlocks].
func New[T Word](codes []T) (*Index[T], error) {
	if len(codes) == 0 {
		return nil, newError(ErrEmptyInput, "codes must not be empty")
	}

	dims := dimensions[T]()
	m := 2
	if len(codes) > 1 {
		m = int(math.Round(float64(dims) / math.Log2(float64(len(codes)))))
	}
	if m < 2 {
		m = 2
	}
	if m > maxAutoBlocks {
		m = maxAutoBlocks
	}
	if m > dims {
		m = dims
	}

	return WithBlocks(codes, m)
}

// WithBlocks builds an Index from codes using an explicit block count.
func WithBlocks[T Word](codes []T, numBlocks int) (*Index[T], error) {
	if len(codes) == 0 {
		return nil, newError(ErrEmptyInput, "codes must not be empty")
	}
	if uint64(len(codes)) > math.MaxUint32 {
		return nil, newError(ErrTooManyCodes, fmt.Sprintf("%d codes exceeds 2^32-1", len(codes)))
	}

	dims := dimensions[T]()
	if numBlocks < 2 || dims < numBlocks {
		return nil, newError(ErrInvalidBlocks, fmt.Sprintf("numBlocks must be in [2,%d], got %d", dims, numBlocks))
	}

	masks := make([]T, numBlocks)
	begs := make([]int, numBlocks+1)
	for b := 0; b < numBlocks; b++ {
		dim := (b + dims) / numBlocks
		if dim == 64 {
			masks[b] = ^T(0)
		} else {
			masks[b] = T((uint64(1) << uint(dim)) - 1)
		}
		begs[b+1] = begs[b] + dim
	}

	tables := make([]*Table, numBlocks)
	errs := make([]error, numBlocks)

	// Each block's table depends only on that block's subcodes, so the m
	// tables are built concurrently, one goroutine per block — the same
	// shape as the teacher's per-table parallel Finish() step.
	var wg sync.WaitGroup
	for b := 0; b < numBlocks; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()

			beg := begs[b]
			dim := begs[b+1] - begs[b]

			table, err := NewTable(dim)
			if err != nil {
				errs[b] = err
				return
			}

			for id := range codes {
				table.CountInsert(subcode(codes[id], beg, masks[b]))
			}
			for id := range codes {
				table.DataInsert(subcode(codes[id], beg, masks[b]), uint32(id))
			}

			tables[b] = table
		}(b)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Index[T]{
		numBlocks: numBlocks,
		codes:     append([]T(nil), codes...),
		tables:    tables,
		masks:     masks,
		begs:      begs,
	}, nil
}

func subcode[T Word](code T, beg int, mask T) uint64 {
	return uint64((code >> uint(beg)) & mask)
}

// NumBlocks returns the number of substring blocks the index was built with.
func (idx *Index[T]) NumBlocks() int { return idx.numBlocks }

// Codes returns the immutable database of codes backing the index.
func (idx *Index[T]) Codes() []T { return idx.codes }

// Tables returns the per-block sparse hash tables backing the index, for
// diagnostics such as reporting slot load-factor distribution.
func (idx *Index[T]) Tables() []*Table { return idx.tables }

func (idx *Index[T]) dim(b int) int { return idx.begs[b+1] - idx.begs[b] }

func (idx *Index[T]) chunk(code T, b int) uint64 {
	return subcode(code, idx.begs[b], idx.masks[b])
}

// BlockValue returns the sub-code of code for block, the same slot key its
// table was built and queried with. Exposed for diagnostics that need to
// correlate a code with its table slot, such as reporting load-factor
// distribution.
func (idx *Index[T]) BlockValue(code T, block int) uint64 { return idx.chunk(code, block) }
