// Package mih implements multi-index hashing (MIH) for exact
// nearest-neighbor search over fixed-width binary codes in Hamming space,
// following Norouzi, Punjani and Fleet, "Fast Exact Search in Hamming
// Space with Multi-Index Hashing" (2014).
//
// A database of N codes is split into m disjoint substrings ("blocks").
// Each block gets its own sparse hash table keyed by the substring value.
// A query is answered by, for each block, enumerating substrings within a
// small radius of the query's substring (via the pigeonhole principle) and
// looking each one up; candidates are then verified against the query by
// full Hamming distance. This turns an O(N) linear scan into sublinear
// lookups, at the cost of O(m * 2^(b/m)) index memory.
//
// Supported code widths are the built-in unsigned integer types via the
// generic Index, plus a dedicated Uint128/Index128 pair for 128-bit codes.
//
//	db := []uint64{ /* ... */ }
//	idx, err := mih.New(db)
//	if err != nil {
//		// handle err
//	}
//
//	rs := idx.RangeSearcher()
//	ids := rs.Run(query, 2) // every id within Hamming distance 2, ascending
//
//	tk := idx.TopKSearcher()
//	ids = tk.Run(query, 4) // the 4 closest ids, non-decreasing by distance
//
// Searchers hold their own scratch buffers and are not safe for concurrent
// use from multiple goroutines; build one searcher per goroutine and reuse
// it across queries to avoid repeated allocation.
//
// An Index serializes to a compact, unframed little-endian layout via
// SerializeInto/DeserializeIndexFrom; SaveCompressed/LoadCompressed wrap
// that same payload in a zstd frame for on-disk storage.
package mih
