// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

// Transport is the result of decoding a TCP or UDP header.
type Transport struct {
	SrcPort    uint16
	DstPort    uint16
	PayloadOff int // offset of the payload within b, the slice passed in
}

// DecodeUDP decodes a UDP header. The payload begins at offset 8.
func DecodeUDP(b []byte) (Transport, error) {
	r := NewReader(b)

	src, err := r.U16BEAt(0)
	if err != nil {
		return Transport{}, err
	}
	dst, err := r.U16BEAt(2)
	if err != nil {
		return Transport{}, err
	}
	if r.Len() < 8 {
		return Transport{}, ErrTruncated
	}

	return Transport{SrcPort: src, DstPort: dst, PayloadOff: 8}, nil
}

// DecodeTCP decodes a TCP header. The payload offset is taken from the
// data offset field (upper nibble of byte 12), in 4-byte units.
func DecodeTCP(b []byte) (Transport, error) {
	r := NewReader(b)

	src, err := r.U16BEAt(0)
	if err != nil {
		return Transport{}, err
	}
	dst, err := r.U16BEAt(2)
	if err != nil {
		return Transport{}, err
	}

	doByte, err := r.U8At(12)
	if err != nil {
		return Transport{}, err
	}
	dataOffset := int(doByte>>4) * 4
	if dataOffset < 20 || r.Len() < dataOffset {
		return Transport{}, ErrTruncated
	}

	return Transport{SrcPort: src, DstPort: dst, PayloadOff: dataOffset}, nil
}
