package mih

import (
	"fmt"
	"math"
	"sync"
)

// uint128Dimensions is the fixed bit width of Uint128 codes.
const uint128Dimensions = 128

// Index128 is the Uint128 counterpart of Index[T]. Go generics cannot
// parameterize a single implementation over both the built-in machine
// words and a two-limb struct through the same shift/and/xor operator
// syntax, so 128-bit codes get this dedicated type sharing the
// width-independent Table and sigGenerator types (spec.md §9).
type Index128 struct {
	numBlocks int
	codes     []Uint128
	tables    []*Table
	masks     []Uint128
	begs      []int
}

// NewIndex128 builds an Index128, auto-deriving the block count the same
// way New does for the generic Index.
func NewIndex128(codes []Uint128) (*Index128, error) {
	if len(codes) == 0 {
		return nil, newError(ErrEmptyInput, "codes must not be empty")
	}

	m := 2
	if len(codes) > 1 {
		m = int(math.Round(float64(uint128Dimensions) / math.Log2(float64(len(codes)))))
	}
	if m < 2 {
		m = 2
	}
	if m > maxAutoBlocks {
		m = maxAutoBlocks
	}

	return WithBlocks128(codes, m)
}

// WithBlocks128 builds an Index128 using an explicit block count.
func WithBlocks128(codes []Uint128, numBlocks int) (*Index128, error) {
	if len(codes) == 0 {
		return nil, newError(ErrEmptyInput, "codes must not be empty")
	}
	if uint64(len(codes)) > math.MaxUint32 {
		return nil, newError(ErrTooManyCodes, fmt.Sprintf("%d codes exceeds 2^32-1", len(codes)))
	}
	if numBlocks < 2 || uint128Dimensions < numBlocks {
		return nil, newError(ErrInvalidBlocks, fmt.Sprintf("numBlocks must be in [2,%d], got %d", uint128Dimensions, numBlocks))
	}

	masks := make([]Uint128, numBlocks)
	begs := make([]int, numBlocks+1)
	for b := 0; b < numBlocks; b++ {
		dim := (b + uint128Dimensions) / numBlocks
		if dim > 64 {
			return nil, newError(ErrInvalidBlocks, "each block must be at most 64 bits wide for a 128-bit code; increase numBlocks")
		}
		masks[b] = Mask128(dim)
		begs[b+1] = begs[b] + dim
	}

	tables := make([]*Table, numBlocks)
	errs := make([]error, numBlocks)

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
				table.CountInsert(codes[id].Shr(uint(beg)).And(masks[b]).Uint64())
			}
			for id := range codes {
				table.DataInsert(codes[id].Shr(uint(beg)).And(masks[b]).Uint64(), uint32(id))
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

	return &Index128{
		numBlocks: numBlocks,
		codes:     append([]Uint128(nil), codes...),
		tables:    tables,
		masks:     masks,
		begs:      begs,
	}, nil
}

// NumBlocks returns the number of substring blocks the index was built with.
func (idx *Index128) NumBlocks() int { return idx.numBlocks }

// Codes returns the immutable database of codes backing the index.
func (idx *Index128) Codes() []Uint128 { return idx.codes }

// Tables returns the per-block sparse hash tables backing the index, for
// diagnostics such as reporting slot load-factor distribution.
func (idx *Index128) Tables() []*Table { return idx.tables }

func (idx *Index128) dim(b int) int { return idx.begs[b+1] - idx.begs[b] }

func (idx *Index128) chunk(code Uint128, b int) uint64 {
	return code.Shr(uint(idx.begs[b])).And(idx.masks[b]).Uint64()
}
