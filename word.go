package mih

import (
	"encoding/binary"
	"io"
	"math/bits"
)

// Word is the set of built-in unsigned integer widths the generic Index
// supports directly. 128-bit codes use the separate Uint128 type and
// Index128, since Go generics cannot parameterize over both a machine word
// and a two-limb struct through the same shift/and/xor operators.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func dimensions[T Word]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	default:
		return 64
	}
}

func popcount[T Word](x T) uint32 {
	return uint32(bits.OnesCount64(uint64(x)))
}

// hamdist returns the Hamming distance between x and y: the number of bit
// positions at which the two fixed-width codes differ.
func hamdist[T Word](x, y T) int {
	return int(popcount(x ^ y))
}

func writeWordLE[T Word](w io.Writer, x T) error {
	switch dimensions[T]() {
	case 8:
		_, err := w.Write([]byte{byte(x)})
		return err
	case 16:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(x))
		_, err := w.Write(b[:])
		return err
	case 32:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(x))
		_, err := w.Write(b[:])
		return err
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(x))
		_, err := w.Write(b[:])
		return err
	}
}

func readWordLE[T Word](r io.Reader) (T, error) {
	var zero T
	switch dimensions[T]() {
	case 8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return zero, err
		}
		return T(b[0]), nil
	case 16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return zero, err
		}
		return T(binary.LittleEndian.Uint16(b[:])), nil
	case 32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return zero, err
		}
		return T(binary.LittleEndian.Uint32(b[:])), nil
	default:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return zero, err
		}
		return T(binary.LittleEndian.Uint64(b[:])), nil
	}
}

// Uint128 is a 128-bit unsigned binary code represented as two 64-bit limbs.
type Uint128 struct {
	Hi, Lo uint64
}

// Uint128From64 builds a Uint128 whose high limb is zero.
func Uint128From64(lo uint64) Uint128 { return Uint128{Lo: lo} }

// Shr returns x >> n; for n >= 128 the result is zero.
func (x Uint128) Shr(n uint) Uint128 {
	switch {
	case n == 0:
		return x
	case n < 64:
		return Uint128{
			Hi: x.Hi >> n,
			Lo: (x.Lo >> n) | (x.Hi << (64 - n)),
		}
	case n < 128:
		return Uint128{Hi: 0, Lo: x.Hi >> (n - 64)}
	default:
		return Uint128{}
	}
}

// And returns the bitwise AND of x and y.
func (x Uint128) And(y Uint128) Uint128 { return Uint128{Hi: x.Hi & y.Hi, Lo: x.Lo & y.Lo} }

// Xor returns the bitwise XOR of x and y.
func (x Uint128) Xor(y Uint128) Uint128 { return Uint128{Hi: x.Hi ^ y.Hi, Lo: x.Lo ^ y.Lo} }

// Uint64 returns the low 64 bits of x.
func (x Uint128) Uint64() uint64 { return x.Lo }

// Popcount returns the number of set bits in x.
func (x Uint128) Popcount() uint32 {
	return uint32(bits.OnesCount64(x.Hi) + bits.OnesCount64(x.Lo))
}

// Mask128 builds the mask (1<<dim)-1 for dim in [0, 128], matching the
// u64::MAX special case called out in spec.md §3 for a 64-bit block.
func Mask128(dim int) Uint128 {
	switch {
	case dim <= 0:
		return Uint128{}
	case dim < 64:
		return Uint128{Lo: (uint64(1) << uint(dim)) - 1}
	case dim == 64:
		return Uint128{Lo: ^uint64(0)}
	case dim < 128:
		return Uint128{Hi: (uint64(1) << uint(dim-64)) - 1, Lo: ^uint64(0)}
	default:
		return Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	}
}

func writeUint128LE(w io.Writer, x Uint128) error {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], x.Lo)
	binary.LittleEndian.PutUint64(b[8:16], x.Hi)
	_, err := w.Write(b[:])
	return err
}

func readUint128LE(r io.Reader) (Uint128, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Uint128{}, err
	}
	return Uint128{Lo: binary.LittleEndian.Uint64(b[0:8]), Hi: binary.LittleEndian.Uint64(b[8:16])}, nil
}
