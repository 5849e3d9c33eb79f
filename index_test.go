package mih

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workedExampleCodes reproduces the eight-code, 64-bit database from the
// end-to-end scenario: 64-bit binary literals with a known number of zero
// bits relative to an all-ones query.
func workedExampleCodes() []uint64 {
	return []uint64{
		0b1111111111111111111111011111111111111111111111111011101111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 3
		0b1111111111111111111111111111111101111111111011111111111111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 2
		0b1111111011011101111111111111111101111111111111111111111111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 4
		0b1111111111111101111111111111111111111000111111111110001111111110 & 0xFFFFFFFFFFFFFFFF, // #zeros = 8
		0b1101111111111111111111111111111111111111111111111111111111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 1
		0b1111111111111111101111111011111111111111111101001110111111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 6
		0b1111111111111111111111111111111111101111111111111111011111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 2
		0b1110110101011011011111111111111101111111111111111000011111111111 & 0xFFFFFFFFFFFFFFFF, // #zeros = 11
	}
}

func TestWorkedExampleMatchesLinearOracle(t *testing.T) {
	codes := workedExampleCodes()
	const q = uint64(0xFFFFFFFFFFFFFFFF)

	idx, err := New(codes)
	require.NoError(t, err)

	rs := idx.RangeSearcher()
	got := rs.Run(q, 2)
	assert.Equal(t, []uint32{1, 4, 6}, got)
	assert.Equal(t, RangeSearchLinear(codes, q, 2), got)

	tk := idx.TopKSearcher()
	topk := tk.Run(q, 4)
	// Distances are 1, 2, 2, 3; within the distance-2 tie, id 1 precedes id
	// 6 by observation order, not by id.
	assert.Equal(t, []uint32{4, 1, 6, 0}, topk)
}

func TestRangeSearchAgainstOracleRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	codes := RandomCodes[uint64](rng, 2000)

	idx, err := New(codes)
	require.NoError(t, err)
	rs := idx.RangeSearcher()

	for trial := 0; trial < 20; trial++ {
		q := RandomCodes[uint64](rng, 1)[0]
		for radius := 0; radius <= 6; radius++ {
			got := append([]uint32(nil), rs.Run(q, radius)...)
			want := RangeSearchLinear(codes, q, radius)
			assert.Equal(t, want, got, "q=%x radius=%d", q, radius)
		}
	}
}

func TestRangeSearchAgainstOracleRandomWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("uint8", func(t *testing.T) {
		codes := RandomCodes[uint8](rng, 500)
		idx, err := New(codes)
		require.NoError(t, err)
		rs := idx.RangeSearcher()
		for trial := 0; trial < 10; trial++ {
			q := RandomCodes[uint8](rng, 1)[0]
			for radius := 0; radius <= 6; radius++ {
				got := append([]uint32(nil), rs.Run(q, radius)...)
				assert.Equal(t, RangeSearchLinear(codes, q, radius), got)
			}
		}
	})

	t.Run("uint16", func(t *testing.T) {
		codes := RandomCodes[uint16](rng, 1000)
		idx, err := New(codes)
		require.NoError(t, err)
		rs := idx.RangeSearcher()
		for trial := 0; trial < 10; trial++ {
			q := RandomCodes[uint16](rng, 1)[0]
			for radius := 0; radius <= 6; radius++ {
				got := append([]uint32(nil), rs.Run(q, radius)...)
				assert.Equal(t, RangeSearchLinear(codes, q, radius), got)
			}
		}
	})

	t.Run("uint32", func(t *testing.T) {
		codes := RandomCodes[uint32](rng, 1000)
		idx, err := New(codes)
		require.NoError(t, err)
		rs := idx.RangeSearcher()
		for trial := 0; trial < 10; trial++ {
			q := RandomCodes[uint32](rng, 1)[0]
			for radius := 0; radius <= 6; radius++ {
				got := append([]uint32(nil), rs.Run(q, radius)...)
				assert.Equal(t, RangeSearchLinear(codes, q, radius), got)
			}
		}
	})
}

func TestTopKContainmentRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	codes := RandomCodes[uint64](rng, 5000)

	idx, err := New(codes)
	require.NoError(t, err)
	tk := idx.TopKSearcher()

	for trial := 0; trial < 10; trial++ {
		q := RandomCodes[uint64](rng, 1)[0]
		oracle := ExhaustiveSearchLinear(codes, q)
		sorted := append([]ScoredID(nil), oracle...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Dist < sorted[j].Dist })

		for _, k := range []int{1, 10, 100} {
			got := append([]uint32(nil), tk.Run(q, k)...)
			require.Len(t, got, k)

			cutoffDist := sorted[k-1].Dist
			allowed := make(map[uint32]bool)
			for _, o := range oracle {
				if o.Dist <= cutoffDist {
					allowed[o.ID] = true
				}
			}
			for _, id := range got {
				assert.True(t, allowed[id], "k=%d id=%d dist=%d exceeds cutoff %d", k, id, oracle[id].Dist, cutoffDist)
			}
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, oracle[got[i-1]].Dist, oracle[got[i]].Dist)
			}
		}
	}
}

func TestAllIdenticalCodes(t *testing.T) {
	codes := make([]uint64, 50)
	for i := range codes {
		codes[i] = 0x1234
	}

	idx, err := New(codes)
	require.NoError(t, err)

	tk := idx.TopKSearcher()
	got := tk.Run(0x1234, 5)
	want := []uint32{0, 1, 2, 3, 4}
	assert.Equal(t, want, got)

	rs := idx.RangeSearcher()
	assert.Len(t, rs.Run(0x1234, 0), 50)
}

func TestSingleCode(t *testing.T) {
	codes := []uint64{0xDEADBEEF}

	idx, err := New(codes)
	require.NoError(t, err)

	rs := idx.RangeSearcher()
	assert.Equal(t, []uint32{0}, rs.Run(0xDEADBEEF, 0))
	assert.Equal(t, []uint32{0}, rs.Run(0, 63))

	tk := idx.TopKSearcher()
	assert.Equal(t, []uint32{0}, tk.Run(0xDEADBEEF, 1))
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New[uint64](nil)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrEmptyInput, merr.Kind)
}

func TestWithBlocksRejectsOutOfRange(t *testing.T) {
	codes := []uint64{1, 2, 3}

	_, err := WithBlocks(codes, 1)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrInvalidBlocks, merr.Kind)

	_, err = WithBlocks(codes, 65)
	require.Error(t, err)
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrInvalidBlocks, merr.Kind)
}
