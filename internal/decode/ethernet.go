// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

const (
	etherTypeVLAN = 0x8100
	etherTypeIPv4 = 0x0800
	etherTypeIPv6 = 0x86DD
)

// Link-layer labels, stored verbatim in FlowStats.LinkKind.
const (
	LinkEthernetII = "Ethernet II"
	LinkVLAN       = "802.1Q VLAN"
	LinkUnknown    = "Unknown"
)

// Ethernet is the result of decoding the link layer of a frame.
type Ethernet struct {
	LinkKind   string
	EtherType  uint16
	HeaderLen  int
}

// DecodeEthernet reads the Ethernet (and, if present, 802.1Q VLAN tag)
// header from the start of frame. An outer EtherType other than
// VLAN/IPv4/IPv6 yields LinkUnknown with a zero header length -- callers
// discard such frames, they carry no flow information this engine
// understands. A VLAN-tagged frame is reported as LinkVLAN with the
// inner EtherType whatever that type is; the inner type is not checked
// here.
func DecodeEthernet(frame []byte) (Ethernet, error) {
	r := NewReader(frame)

	etherType, err := r.U16BEAt(12)
	if err != nil {
		return Ethernet{}, err
	}

	if etherType == etherTypeVLAN {
		inner, err := r.U16BEAt(16)
		if err != nil {
			return Ethernet{}, err
		}

		return Ethernet{
			LinkKind:  LinkVLAN,
			EtherType: inner,
			HeaderLen: 18,
		}, nil
	}

	if etherType == etherTypeIPv4 || etherType == etherTypeIPv6 {
		return Ethernet{
			LinkKind:  LinkEthernetII,
			EtherType: etherType,
			HeaderLen: 14,
		}, nil
	}

	return Ethernet{LinkKind: LinkUnknown, EtherType: etherType}, nil
}
