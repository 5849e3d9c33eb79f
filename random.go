package mih

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"
)

// SeedFromString derives a deterministic int64 seed from a string, letting
// cmd/mihbench and tests request reproducible databases by name rather than
// a raw numeric seed. Random-code generation is an out-of-scope external
// collaborator per spec.md §1 — this helper exists only so the benchmark
// driver and property tests can build decently-sized databases.
func SeedFromString(s string) int64 {
	return int64(xxhash.Sum64String(s))
}

// RandomCodes generates size pseudo-random codes of width T using rng.
func RandomCodes[T Word](rng *rand.Rand, size int) []T {
	codes := make([]T, size)
	dims := dimensions[T]()
	for i := range codes {
		v := rng.Uint64()
		switch dims {
		case 8:
			codes[i] = T(uint8(v))
		case 16:
			codes[i] = T(uint16(v))
		case 32:
			codes[i] = T(uint32(v))
		default:
			codes[i] = T(v)
		}
	}
	return codes
}

// RandomUint128Codes generates size pseudo-random 128-bit codes using rng.
func RandomUint128Codes(rng *rand.Rand, size int) []Uint128 {
	codes := make([]Uint128, size)
	for i := range codes {
		codes[i] = Uint128{Hi: rng.Uint64(), Lo: rng.Uint64()}
	}
	return codes
}
