// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package worker

import (
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// Snaplen, promiscuity, and the read timeout are fixed by §4.E.
const (
	Snaplen        = 65536
	Promiscuous    = true
	ReadTimeout    = time.Second
)

// Interface describes one capture-capable interface as reported by the
// OS driver's enumeration call.
type Interface struct {
	Name        string
	Description string
}

// Session is the subset of a live capture handle the engine needs. It
// exists so tests can substitute a fake without opening a real pcap
// handle; *pcap.Handle from github.com/google/gopacket/pcap implements it.
type Session interface {
	SetBPFFilter(expr string) error
	ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error)
	Close()
}

// Driver is the OS packet-capture driver interface consumed by the
// engine (§6). It is deliberately out of scope to re-specify beyond
// this interface -- the default implementation is a thin wrapper over
// github.com/google/gopacket/pcap, the same library the teacher uses
// in internal/bridge/capture.go and internal/bridge/ipmac.go.
type Driver interface {
	EnumerateInterfaces() ([]Interface, error)
	OpenLive(name string) (Session, error)
}

// PcapDriver is the production Driver, backed by libpcap via gopacket.
type PcapDriver struct{}

// EnumerateInterfaces lists the interfaces libpcap can open.
func (PcapDriver) EnumerateInterfaces() ([]Interface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(devs))
	for _, d := range devs {
		out = append(out, Interface{Name: d.Name, Description: d.Description})
	}
	return out, nil
}

// OpenLive opens a live capture session on name with the fixed
// snaplen/promisc/timeout from §4.E.
func (PcapDriver) OpenLive(name string) (Session, error) {
	return pcap.OpenLive(name, Snaplen, Promiscuous, ReadTimeout)
}
