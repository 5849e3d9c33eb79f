package mih

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint128ShrAndMask(t *testing.T) {
	x := Uint128{Hi: 0x0102030405060708, Lo: 0x0900000000000001}

	assert.Equal(t, x, x.Shr(0))
	assert.Equal(t, Uint128{Hi: 0, Lo: x.Hi}, x.Shr(64))
	assert.Equal(t, Uint128{}, x.Shr(128))

	shifted := x.Shr(4)
	want := Uint128{
		Hi: x.Hi >> 4,
		Lo: (x.Lo >> 4) | (x.Hi << 60),
	}
	assert.Equal(t, want, shifted)

	assert.Equal(t, Uint128{Lo: 0xF}, Mask128(4))
	assert.Equal(t, Uint128{Lo: ^uint64(0)}, Mask128(64))
	assert.Equal(t, Uint128{Hi: 0xF, Lo: ^uint64(0)}, Mask128(68))
	assert.Equal(t, Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, Mask128(128))
}

func TestUint128PopcountAndXor(t *testing.T) {
	a := Uint128{Hi: 0xF0F0F0F0F0F0F0F0, Lo: 0x0F0F0F0F0F0F0F0F}
	b := Uint128{Hi: 0xF0F0F0F0F0F0F0F0, Lo: 0xFFFFFFFFFFFFFFFF}

	assert.Equal(t, uint32(64), a.Popcount())
	assert.Equal(t, uint32(32), a.Xor(b).Popcount())
}

func randomUint128(rng *rand.Rand) Uint128 {
	return Uint128{Hi: rng.Uint64(), Lo: rng.Uint64()}
}

func TestRangeSearch128AgainstOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	codes := RandomUint128Codes(rng, 2000)

	idx, err := NewIndex128(codes)
	require.NoError(t, err)
	rs := idx.RangeSearcher()

	for trial := 0; trial < 10; trial++ {
		q := randomUint128(rng)
		for radius := 0; radius <= 6; radius++ {
			got := append([]uint32(nil), rs.Run(q, radius)...)
			want := RangeSearchLinear128(codes, q, radius)
			assert.Equal(t, want, got, "q=%+v radius=%d", q, radius)
		}
	}
}

func TestTopK128ContainmentRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	codes := RandomUint128Codes(rng, 3000)

	idx, err := NewIndex128(codes)
	require.NoError(t, err)
	tk := idx.TopKSearcher()

	for trial := 0; trial < 5; trial++ {
		q := randomUint128(rng)
		oracle := ExhaustiveSearchLinear128(codes, q)

		for _, k := range []int{1, 10, 100} {
			got := append([]uint32(nil), tk.Run(q, k)...)
			require.Len(t, got, k)
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, oracle[got[i-1]].Dist, oracle[got[i]].Dist)
			}
		}
	}
}

func TestIndex128SerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	codes := RandomUint128Codes(rng, 500)

	idx, err := NewIndex128(codes)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, idx.SerializeInto(&buf))
	first := append([]byte(nil), buf.Bytes()...)

	restored, err := DeserializeIndex128From(&buf)
	require.NoError(t, err)
	assert.Equal(t, idx.Codes(), restored.Codes())

	var reBuf bytes.Buffer
	require.NoError(t, restored.SerializeInto(&reBuf))
	assert.Equal(t, first, reBuf.Bytes())
}

func TestWithBlocks128RejectsTooFewBlocks(t *testing.T) {
	codes := []Uint128{{Lo: 1}, {Lo: 2}, {Lo: 3}}

	_, err := WithBlocks128(codes, 1)
	require.Error(t, err)
	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrInvalidBlocks, merr.Kind)
}
