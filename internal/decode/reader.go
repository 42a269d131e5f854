// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package decode implements bounds-checked, pure-function decoding of
// captured frames from the link layer up through a handful of
// application-layer name hints. Every decoder here takes a byte slice.
// The header decoders return a decoded value (including its header
// length or payload offset) or an error wrapping ErrTruncated; the
// application-name decoders return an empty name rather than an error
// for content that simply carries no name. None of them index packet
// memory without first checking that the span is in bounds.
package decode

// Reader wraps a byte slice with bounds-checked accessors. It never
// panics on short input -- every method returns ErrTruncated instead.
type Reader struct {
	b []byte
}

// NewReader wraps b for bounds-checked reads. It does not copy b.
func NewReader(b []byte) Reader {
	return Reader{b: b}
}

// Len returns the number of bytes remaining in the reader.
func (r Reader) Len() int {
	return len(r.b)
}

// Bytes returns the underlying slice. Callers must not mutate it.
func (r Reader) Bytes() []byte {
	return r.b
}

// U8At returns the byte at offset.
func (r Reader) U8At(offset int) (byte, error) {
	if offset < 0 || offset >= len(r.b) {
		return 0, ErrTruncated
	}
	return r.b[offset], nil
}

// U16BEAt returns the big-endian uint16 starting at offset.
func (r Reader) U16BEAt(offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(r.b) {
		return 0, ErrTruncated
	}
	return uint16(r.b[offset])<<8 | uint16(r.b[offset+1]), nil
}

// U32BEAt returns the big-endian uint32 starting at offset.
func (r Reader) U32BEAt(offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(r.b) {
		return 0, ErrTruncated
	}
	return uint32(r.b[offset])<<24 | uint32(r.b[offset+1])<<16 |
		uint32(r.b[offset+2])<<8 | uint32(r.b[offset+3]), nil
}

// U64BEAt returns the big-endian uint64 starting at offset.
func (r Reader) U64BEAt(offset int) (uint64, error) {
	if offset < 0 || offset+8 > len(r.b) {
		return 0, ErrTruncated
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(r.b[offset+i])
	}
	return v, nil
}

// Slice returns b[offset : offset+length], bounds-checked.
func (r Reader) Slice(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(r.b) {
		return nil, ErrTruncated
	}
	return r.b[offset : offset+length], nil
}

// Advance returns a new Reader over the bytes starting at offset,
// bounds-checked against the current length.
func (r Reader) Advance(offset int) (Reader, error) {
	if offset < 0 || offset > len(r.b) {
		return Reader{}, ErrTruncated
	}
	return Reader{b: r.b[offset:]}, nil
}
