package mih

import (
	"encoding/binary"
	"io"
)

func writeU64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// SerializeInto writes idx in the little-endian, unframed layout described
// in spec.md §6: m, the code vector, the m tables, the masks, then begs.
func (idx *Index[T]) SerializeInto(w io.Writer) error {
	if err := writeU64(w, uint64(idx.numBlocks)); err != nil {
		return wrapIO("write num_blocks", err)
	}
	if err := writeU64(w, uint64(len(idx.codes))); err != nil {
		return wrapIO("write code count", err)
	}
	for _, c := range idx.codes {
		if err := writeWordLE(w, c); err != nil {
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
		if err := writeWordLE(w, m); err != nil {
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

// DeserializeIndexFrom reads an Index previously written with SerializeInto.
func DeserializeIndexFrom[T Word](r io.Reader) (*Index[T], error) {
	numBlocks, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read num_blocks", err)
	}

	n, err := readU64(r)
	if err != nil {
		return nil, wrapIO("read code count", err)
	}
	codes := make([]T, n)
	for i := range codes {
		codes[i], err = readWordLE[T](r)
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
	masks := make([]T, numMasks)
	for i := range masks {
		masks[i], err = readWordLE[T](r)
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

	return &Index[T]{
		numBlocks: int(numBlocks),
		codes:     codes,
		tables:    tables,
		masks:     masks,
		begs:      begs,
	}, nil
}
