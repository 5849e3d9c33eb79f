package mih

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// SaveCompressed serializes idx in the exact §6 wire format, then wraps
// those bytes in a zstd frame. It is additive: the inner payload is still
// byte-for-byte what SerializeInto would produce; only the outer envelope
// is compressed, so a compressed archive can always be decompressed once
// and fed to DeserializeIndexFrom unchanged.
func SaveCompressed[T Word](w io.Writer, idx *Index[T]) error {
	var buf bytes.Buffer
	if err := idx.SerializeInto(&buf); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return wrapIO("create zstd writer", err)
	}
	if _, err := enc.Write(buf.Bytes()); err != nil {
		enc.Close()
		return wrapIO("write zstd frame", err)
	}
	if err := enc.Close(); err != nil {
		return wrapIO("close zstd writer", err)
	}
	return nil
}

// LoadCompressed reads an archive written by SaveCompressed.
func LoadCompressed[T Word](r io.Reader) (*Index[T], error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, wrapIO("create zstd reader", err)
	}
	defer dec.Close()
	return DeserializeIndexFrom[T](dec)
}
