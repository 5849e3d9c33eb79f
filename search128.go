package mih

import "sort"

// RangeSearcher128 is the Uint128 counterpart of RangeSearcher.
type RangeSearcher128 struct {
	index   *Index128
	siggen  sigGenerator
	answers []uint32
}

// RangeSearcher creates a searcher bound to idx.
func (idx *Index128) RangeSearcher() *RangeSearcher128 {
	return &RangeSearcher128{index: idx, answers: make([]uint32, 0, 1<<8)}
}

// Run finds the ids of codes whose Hamming distance to q is at most radius,
// returned ascending by id. The returned slice aliases the searcher's
// internal buffer and is only valid until the next call to Run.
func (s *RangeSearcher128) Run(q Uint128, radius int) []uint32 {
	idx := s.index
	s.answers = s.answers[:0]

	for b := 0; b < idx.numBlocks; b++ {
		if b+radius+1 < idx.numBlocks {
			continue
		}

		rad := (b + radius + 1 - idx.numBlocks) / idx.numBlocks
		dim := idx.dim(b)
		qcd := idx.chunk(q, b)
		table := idx.tables[b]

		for r := 0; r <= rad; r++ {
			s.siggen.Init(qcd, dim, r)
			for s.siggen.HasNext() {
				sig := s.siggen.Next()
				if a := table.Access(sig); a != nil {
					s.answers = append(s.answers, a...)
				}
			}
		}
	}

	sort.Slice(s.answers, func(i, j int) bool { return s.answers[i] < s.answers[j] })

	n := 0
	for i := range s.answers {
		if i == 0 || s.answers[i-1] != s.answers[i] {
			dist := int(idx.codes[s.answers[i]].Xor(q).Popcount())
			if dist <= radius {
				s.answers[n] = s.answers[i]
				n++
			}
		}
	}
	s.answers = s.answers[:n]
	return s.answers
}

// TopKSearcher128 is the Uint128 counterpart of TopKSearcher.
type TopKSearcher128 struct {
	index   *Index128
	siggen  sigGenerator
	answers []uint32
	checked map[uint32]struct{}
	counts  []int
}

// TopKSearcher creates a searcher bound to idx.
func (idx *Index128) TopKSearcher() *TopKSearcher128 {
	return &TopKSearcher128{
		index:   idx,
		checked: make(map[uint32]struct{}),
		counts:  make([]int, uint128Dimensions+1),
	}
}

// Run finds the ids of the topk codes closest to q, ascending by Hamming
// distance; ties at the cut-off distance are broken by observation order,
// not by id. If topk exceeds the database size, all ids are returned. The
// returned slice aliases the searcher's internal buffer and is only valid
// until the next call to Run.
func (s *TopKSearcher128) Run(q Uint128, topk int) []uint32 {
	idx := s.index

	if n := len(idx.codes); topk > n {
		topk = n
	}
	if topk <= 0 {
		s.answers = s.answers[:0]
		return s.answers
	}

	for i := range s.counts {
		s.counts[i] = 0
	}
	for k := range s.checked {
		delete(s.checked, k)
	}

	need := (uint128Dimensions + 1) * topk
	if cap(s.answers) < need {
		s.answers = make([]uint32, need)
	} else {
		s.answers = s.answers[:need]
	}

	blocks := idx.numBlocks
	total := 0
	r := 0

	for total < topk {
		for b := 0; b < blocks; b++ {
			dim := idx.dim(b)
			qcd := idx.chunk(q, b)
			table := idx.tables[b]

			s.siggen.Init(qcd, dim, r)
			for s.siggen.HasNext() {
				sig := s.siggen.Next()
				a := table.Access(sig)
				for _, v := range a {
					if _, seen := s.checked[v]; seen {
						continue
					}
					s.checked[v] = struct{}{}
					dist := int(idx.codes[v].Xor(q).Popcount())
					if s.counts[dist] < topk {
						s.answers[dist*topk+s.counts[dist]] = v
					}
					s.counts[dist]++
				}
			}

			total += s.counts[r*blocks+b]
			if topk <= total {
				break
			}
		}
		r++
	}

	n2, rr := 0, 0
	for n2 < topk {
		i := 0
		for i < s.counts[rr] && n2 < topk {
			s.answers[n2] = s.answers[rr*topk+i]
			i++
			n2++
		}
		rr++
	}
	s.answers = s.answers[:topk]
	return s.answers
}
