// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package worker implements the capture workers (§4.E): one goroutine
// per opened interface, reading frames from a live gopacket/pcap
// session, decoding them, and folding the result into the aggregator.
package worker

import (
	"fmt"
	"strings"
)

// Preset names a BPF port filter preset, promoted from spec prose
// examples into an actual configuration enum.
type Preset string

const (
	PresetNone    Preset = "none"
	PresetVPN     Preset = "vpn"     // IKEv2/NAT-T + WireGuard: 500, 4500, 51820
	PresetDNSBGP  Preset = "dns-bgp" // DNS + BGP: 53, 179
)

// Ports returns the port set for a preset. PresetNone has no ports and
// BuildFilter returns "" for it, meaning "capture everything".
func (p Preset) Ports() []int {
	switch p {
	case PresetVPN:
		return []int{500, 4500, 51820}
	case PresetDNSBGP:
		return []int{53, 179}
	default:
		return nil
	}
}

// BuildFilter composes a BPF filter string as the boolean OR of
// "udp port P" / "tcp port P" atoms for each port in ports, per §4.E.
// An empty ports list yields "", meaning no filter is applied.
func BuildFilter(ports []int) string {
	if len(ports) == 0 {
		return ""
	}

	atoms := make([]string, 0, len(ports)*2)
	for _, p := range ports {
		atoms = append(atoms, fmt.Sprintf("udp port %d", p), fmt.Sprintf("tcp port %d", p))
	}
	return strings.Join(atoms, " or ")
}
