package mih

// ScoredID pairs a database id with its Hamming distance to a query, as
// produced by ExhaustiveSearchLinear.
type ScoredID struct {
	ID   uint32
	Dist int
}

// RangeSearchLinear is the brute-force range-search oracle: it returns the
// ascending ids of every code within radius of q by scanning the whole
// database. Used as ground truth for testing the MIH index.
func RangeSearchLinear[T Word](codes []T, q T, radius int) []uint32 {
	answers := make([]uint32, 0, 1<<10)
	for i, c := range codes {
		if hamdist(q, c) <= radius {
			answers = append(answers, uint32(i))
		}
	}
	return answers
}

// ExhaustiveSearchLinear computes the Hamming distance from q to every code
// in the database, returned in id order.
func ExhaustiveSearchLinear[T Word](codes []T, q T) []ScoredID {
	answers := make([]ScoredID, len(codes))
	for i, c := range codes {
		answers[i] = ScoredID{ID: uint32(i), Dist: hamdist(q, c)}
	}
	return answers
}

// RangeSearchLinear128 is the Uint128 counterpart of RangeSearchLinear.
func RangeSearchLinear128(codes []Uint128, q Uint128, radius int) []uint32 {
	answers := make([]uint32, 0, 1<<10)
	for i, c := range codes {
		if int(c.Xor(q).Popcount()) <= radius {
			answers = append(answers, uint32(i))
		}
	}
	return answers
}

// ExhaustiveSearchLinear128 is the Uint128 counterpart of ExhaustiveSearchLinear.
func ExhaustiveSearchLinear128(codes []Uint128, q Uint128) []ScoredID {
	answers := make([]ScoredID, len(codes))
	for i, c := range codes {
		answers[i] = ScoredID{ID: uint32(i), Dist: int(c.Xor(q).Popcount())}
	}
	return answers
}
