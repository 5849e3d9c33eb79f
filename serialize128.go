package mih

import "io"

// SerializeInto writes idx in the same little-endian, unframed layout
// DeserializeIndexFrom/SerializeInto use for the generic Index, with each
// 128-bit code and mask written as low-limb-then-high-limb (see
// writeUint128LE).
func (idx *Index128) SerializeInto(w io.Writer) error {
	if err := writeU64(w, uint64(idx.numBlocks)); err != nil {
		return wrapIO("write num_blocks", err)
	}
	if err := writeU64(w, uint64(len(idx.codes))); err != nil {
		return wrapIO("write code count", err)
	}
	for _, c := range idx.codes {
		if err := writeUint128LE(w, c); err != nil {
			return wrapIO("write code", err)
		}
	}

	if err := writeU64(w, uint64(len(idx.tables))); err != nil {
		return wrapIO("write table count", err)
	}
	for _, t := range idx.tables {
		if err := t.serializeInto(w); err != nil {
			return wrapIO("write table", err)
		}
	}

	if err := writeU64(w, uint64(len(idx.masks))); err != nil {
		return wrapIO("write mask count", err)
	}
	for _, m := range idx.masks {
		if err := writeUint128LE(w, m); err != nil {
			return wrapIO("write mask", err)
		}
	}

	if err := writeU64(w, uint64(len(idx.begs))); err != nil {
		return wrapIO("write begs count", err)
	}
	for _, beg := range idx.begs {
		if err := writeU64(w, uint64(beg)); err != nil {
			return wrapIO("write beg", err)
		}
	}

	return nil
}

// DeserializeIndex128From reads an Index128 previously written with
// SerializeInto.
func DeserializeIndex128From(r io.Reader) (*Index128, error) {
	numBlocks, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read num_blocks", err)
	}

	n, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read code count", err)
	}
	codes := make([]Uint128, n)
	for i := range codes {
		codes[i], err = readUint128LE(r)
		if err != nil {
			return nil, wrapIO("read code", err)
		}
	}

	numTables, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read table count", err)
	}
	tables := make([]*Table, numTables)
	for i := range tables {
		tables[i], err = deserializeTableFrom(r)
		if err != nil {
			return nil, wrapIO("read table", err)
		}
	}

	numMasks, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read mask count", err)
	}
	masks := make([]Uint128, numMasks)
	for i := range masks {
		masks[i], err = readUint128LE(r)
		if err != nil {
			return nil, wrapIO("read mask", err)
		}
	}

	numBegs, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read begs count", err)
	}
	begs := make([]int, numBegs)
	for i := range begs {
		v, err := readU64(r)
		if err != nil {
			return nil, wrapIO("read beg", err)
		}
		begs[i] = int(v)
	}

	return &Index128{
		numBlocks: int(numBlocks),
		codes:     codes,
		tables:    tables,
		masks:     masks,
		begs:      begs,
	}, nil
}
