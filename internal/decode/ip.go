// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import (
	"fmt"
	"net"
)

// Transport labels, stored verbatim in FlowKey.Transport.
const (
	TransportTCP   = "TCP"
	TransportUDP   = "UDP"
	TransportOther = "OTHER"
)

const (
	protoTCP  = 6
	protoUDP  = 17
	protoIPv6 = 41 // IPv6-in-IPv4/NH, unused directly but documents the IANA number space
)

// IPHeader is the result of decoding an IPv4 or IPv6 header.
type IPHeader struct {
	SrcIP     net.IP
	Protocol  byte // TCP=6, UDP=17, anything else -> TransportOther
	HeaderLen int
}

// Transport maps the decoded protocol number to a FlowKey transport label.
func (h IPHeader) Transport() string {
	switch h.Protocol {
	case protoTCP:
		return TransportTCP
	case protoUDP:
		return TransportUDP
	default:
		return TransportOther
	}
}

// DecodeIPv4 decodes an IPv4 header starting at the beginning of b. b must
// be the payload following the link-layer header.
func DecodeIPv4(b []byte) (IPHeader, error) {
	r := NewReader(b)

	vhl, err := r.U8At(0)
	if err != nil {
		return IPHeader{}, err
	}
	if vhl>>4 != 4 {
		return IPHeader{}, fmt.Errorf("%w: not IPv4 (version nibble %d)", ErrTruncated, vhl>>4)
	}

	ihl := int(vhl&0x0f) * 4
	if ihl < 20 {
		return IPHeader{}, fmt.Errorf("%w: IPv4 header length %d too short", ErrTruncated, ihl)
	}
	if r.Len() < ihl {
		return IPHeader{}, ErrTruncated
	}

	proto, err := r.U8At(9)
	if err != nil {
		return IPHeader{}, err
	}

	srcBytes, err := r.Slice(12, 4)
	if err != nil {
		return IPHeader{}, err
	}

	return IPHeader{
		SrcIP:     net.IP(append([]byte(nil), srcBytes...)),
		Protocol:  proto,
		HeaderLen: ihl,
	}, nil
}

// DecodeIPv6 decodes the fixed 40-byte IPv6 header starting at the
// beginning of b. Extension headers are not walked: a non-TCP/UDP next
// header is reported as-is and the caller treats it as TransportOther.
func DecodeIPv6(b []byte) (IPHeader, error) {
	r := NewReader(b)

	if r.Len() < 40 {
		return IPHeader{}, ErrTruncated
	}

	vtc, err := r.U8At(0)
	if err != nil {
		return IPHeader{}, err
	}
	if vtc>>4 != 6 {
		return IPHeader{}, fmt.Errorf("%w: not IPv6 (version nibble %d)", ErrTruncated, vtc>>4)
	}

	next, err := r.U8At(6)
	if err != nil {
		return IPHeader{}, err
	}

	srcBytes, err := r.Slice(8, 16)
	if err != nil {
		return IPHeader{}, err
	}

	return IPHeader{
		SrcIP:     net.IP(append([]byte(nil), srcBytes...)),
		Protocol:  next,
		HeaderLen: 40,
	}, nil
}
