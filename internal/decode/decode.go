// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import "strconv"

const (
	portDNS        = 53
	portMDNS       = 5353
	portHTTPS      = 443
	portHTTP       = 80
	portIKENATT    = 4500
	portWireGuard  = 51820
)

// Packet is the fully decoded, per-packet observation the aggregator
// folds into a flow. A packet that yields no useful flow information
// (link/IP/transport decode failure, or an IP protocol that isn't
// TCP/UDP and isn't even recognisable as OTHER) is represented as
// (Packet{}, false) from Decode.
type Packet struct {
	LinkKind  string
	SrcIP     string
	Transport string // TransportTCP, TransportUDP, TransportOther
	SrcPort   string // "" if not applicable
	DstPort   string // "" if not applicable
	AppName   string // "" if none observed

	// IKEExchange and IsWireGuard are diagnostic-only: recognised on
	// ports 4500 and 51820 respectively, neither contributes to
	// FlowStats beyond the packet/byte totals every UDP packet gets.
	IKEExchange string
	IsWireGuard bool
}

// Decode runs the layer decoders over frame (a full captured Ethernet
// frame) in order, and applies the application-name extraction policy
// (§4.B: mDNS, then DNS, then TLS SNI, then HTTP Host -- first
// non-empty wins). It returns ok=false for anything this engine cannot
// build a flow key from: a malformed or unrecognised link/IP layer, or
// a TCP/UDP header that fails to decode.
// Malformed application-layer content beyond the IP/transport headers
// does not make ok false -- the packet still counts, it simply
// contributes no application name.
func Decode(frame []byte) (Packet, bool) {
	eth, err := DecodeEthernet(frame)
	if err != nil || eth.LinkKind == LinkUnknown {
		return Packet{}, false
	}

	ipBytes, err := NewReader(frame).Advance(eth.HeaderLen)
	if err != nil {
		return Packet{}, false
	}

	var ip IPHeader
	switch eth.EtherType {
	case etherTypeIPv4:
		ip, err = DecodeIPv4(ipBytes.Bytes())
	case etherTypeIPv6:
		ip, err = DecodeIPv6(ipBytes.Bytes())
	default:
		return Packet{}, false
	}
	if err != nil {
		return Packet{}, false
	}

	pkt := Packet{
		LinkKind:  eth.LinkKind,
		SrcIP:     ip.SrcIP.String(),
		Transport: ip.Transport(),
	}

	transportPayload, err := NewReader(ipBytes.Bytes()).Advance(ip.HeaderLen)
	if err != nil {
		// IP header decoded but there's nothing after it -- still a
		// valid OTHER/TCP/UDP observation with no port information.
		return pkt, true
	}
	tb := transportPayload.Bytes()

	switch ip.Protocol {
	case protoUDP:
		udp, err := DecodeUDP(tb)
		if err != nil {
			return Packet{}, false
		}
		pkt.SrcPort = strconv.Itoa(int(udp.SrcPort))
		pkt.DstPort = strconv.Itoa(int(udp.DstPort))

		payload, err := NewReader(tb).Advance(udp.PayloadOff)
		if err == nil {
			pkt.AppName = appNameUDP(udp, payload.Bytes())
			pkt.IKEExchange, pkt.IsWireGuard = recognizeVPN(udp, payload.Bytes())
		}

	case protoTCP:
		tcp, err := DecodeTCP(tb)
		if err != nil {
			return Packet{}, false
		}
		pkt.SrcPort = strconv.Itoa(int(tcp.SrcPort))
		pkt.DstPort = strconv.Itoa(int(tcp.DstPort))

		payload, err := NewReader(tb).Advance(tcp.PayloadOff)
		if err == nil {
			pkt.AppName = appNameTCP(tcp, payload.Bytes())
		}
	}

	return pkt, true
}

// appNameUDP applies steps 1-2 of the application-name policy (mDNS,
// then DNS). IKEv2/NAT-T and WireGuard recognition is done separately
// by recognizeVPN.
func appNameUDP(t Transport, payload []byte) string {
	if t.SrcPort == portMDNS || t.DstPort == portMDNS {
		if name, err := DecodeMDNSName(payload); err == nil && name != "" {
			return name
		}
	}
	if t.SrcPort == portDNS || t.DstPort == portDNS {
		if name, err := DecodeDNSQueryName(payload); err == nil && name != "" {
			return name
		}
	}
	return ""
}

// recognizeVPN inspects UDP/4500 and UDP/51820 traffic for IKEv2/NAT-T
// and WireGuard markers. Neither yields an application name; both are
// reported back to the caller for diagnostic logging only.
func recognizeVPN(t Transport, payload []byte) (ikeExchange string, isWireGuard bool) {
	if t.SrcPort == portIKENATT || t.DstPort == portIKENATT {
		rest, isIKE, err := DecodeNATT(payload)
		if err == nil && isIKE {
			if hdr, err := DecodeIKEv2Header(rest); err == nil {
				ikeExchange = hdr.ExchangeName
			}
		}
	}
	if t.SrcPort == portWireGuard || t.DstPort == portWireGuard {
		isWireGuard = IsWireGuard(payload)
	}
	return ikeExchange, isWireGuard
}

// appNameTCP applies steps 3-4 of the application-name policy.
func appNameTCP(t Transport, payload []byte) string {
	if t.SrcPort == portHTTPS || t.DstPort == portHTTPS {
		if name, err := DecodeTLSSNI(payload); err == nil && name != "" {
			return name
		}
	}
	if t.SrcPort == portHTTP || t.DstPort == portHTTP {
		if name, err := DecodeHTTPHost(payload); err == nil && name != "" {
			return name
		}
	}
	return ""
}
