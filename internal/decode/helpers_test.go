// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package decode

import (
	"encoding/binary"

	"github.com/miekg/dns"
)

// buildEthernetIPv4UDP assembles a minimal Ethernet+IPv4+UDP frame
// carrying payload, with no options on either header.
func buildEthernetIPv4UDP(srcIP, dstIP [4]byte, srcPort, dstPort uint16, payload []byte) []byte {
	udp := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint16(udp[0:2], srcPort)
	binary.BigEndian.PutUint16(udp[2:4], dstPort)
	binary.BigEndian.PutUint16(udp[4:6], uint16(len(udp)))
	copy(udp[8:], payload)

	ip := make([]byte, 20+len(udp))
	ip[0] = 0x45 // version 4, IHL 5
	binary.BigEndian.PutUint16(ip[2:4], uint16(len(ip)))
	ip[9] = 17 // UDP
	copy(ip[12:16], srcIP[:])
	copy(ip[16:20], dstIP[:])
	copy(ip[20:], udp)

	frame := make([]byte, 14+len(ip))
	binary.BigEndian.PutUint16(frame[12:14], etherTypeIPv4)
	copy(frame[14:], ip)
	return frame
}

// buildVLANIPv4UDP is buildEthernetIPv4UDP with an 802.1Q tag inserted
// between the Ethernet addresses and the EtherType.
func buildVLANIPv4UDP(srcIP, dstIP [4]byte, srcPort, dstPort uint16, payload []byte) []byte {
	plain := buildEthernetIPv4UDP(srcIP, dstIP, srcPort, dstPort, payload)

	frame := make([]byte, len(plain)+4)
	copy(frame, plain[:12])
	binary.BigEndian.PutUint16(frame[12:14], etherTypeVLAN)
	binary.BigEndian.PutUint16(frame[14:16], 0x0001) // VLAN ID 1
	binary.BigEndian.PutUint16(frame[16:18], etherTypeIPv4)
	copy(frame[18:], plain[14:])
	return frame
}

// buildEthernetIPv4TCP assembles a minimal Ethernet+IPv4+TCP frame, data
// offset fixed at 20 bytes (no TCP options).
func buildEthernetIPv4TCP(srcIP, dstIP [4]byte, srcPort, dstPort uint16, payload []byte) []byte {
	tcp := make([]byte, 20+len(payload))
	binary.BigEndian.PutUint16(tcp[0:2], srcPort)
	binary.BigEndian.PutUint16(tcp[2:4], dstPort)
	tcp[12] = 5 << 4 // data offset 5 * 4 = 20
	copy(tcp[20:], payload)

	ip := make([]byte, 20+len(tcp))
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], uint16(len(ip)))
	ip[9] = 6 // TCP
	copy(ip[12:16], srcIP[:])
	copy(ip[16:20], dstIP[:])
	copy(ip[20:], tcp)

	frame := make([]byte, 14+len(ip))
	binary.BigEndian.PutUint16(frame[12:14], etherTypeIPv4)
	copy(frame[14:], ip)
	return frame
}

// dnsQuestion builds a wire-format DNS query for name using
// github.com/miekg/dns, the same library src/protonuke/dns.go uses to
// build real DNS traffic. Our own decoder never imports this package;
// it exists here purely as test-fixture tooling.
func dnsQuestion(name string) []byte {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)

	packed, err := m.Pack()
	if err != nil {
		panic(err)
	}
	return packed
}

// mdnsAnswer builds a wire-format mDNS response for name with zero
// questions and one answer record, also via github.com/miekg/dns.
func mdnsAnswer(name string) []byte {
	m := new(dns.Msg)
	m.Response = true
	rr, err := dns.NewRR(dns.Fqdn(name) + " 120 IN A 127.0.0.1")
	if err != nil {
		panic(err)
	}
	m.Answer = append(m.Answer, rr)

	packed, err := m.Pack()
	if err != nil {
		panic(err)
	}
	return packed
}
