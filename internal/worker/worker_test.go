// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package worker

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/google/gopacket"

	"github.com/flowcap/flowcap/internal/aggregator"
)

// fakeSession is an in-memory Session backed by a fixed list of frames,
// returning errFakeSessionExhausted once each has been delivered
// exactly once, so a test loop doesn't spin forever.
type fakeSession struct {
	mu     sync.Mutex
	frames [][]byte
	idx    int
	filter string
	closed bool
}

func (s *fakeSession) SetBPFFilter(expr string) error {
	s.filter = expr
	return nil
}

var errFakeSessionExhausted = errors.New("fake session: no more frames")

// ReadPacketData delivers each frame exactly once, then returns a
// terminal error so a test's Run() loop returns instead of spinning
// forever re-polling an idle fake capture handle.
func (s *fakeSession) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.frames) {
		return nil, gopacket.CaptureInfo{}, errFakeSessionExhausted
	}
	f := s.frames[s.idx]
	s.idx++
	return f, gopacket.CaptureInfo{Length: len(f)}, nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

type fakeDriver struct {
	ifaces   []Interface
	sessions map[string]*fakeSession
	openErr  map[string]error
}

func (d *fakeDriver) EnumerateInterfaces() ([]Interface, error) {
	return d.ifaces, nil
}

func (d *fakeDriver) OpenLive(name string) (Session, error) {
	if err := d.openErr[name]; err != nil {
		return nil, err
	}
	return d.sessions[name], nil
}

func ethernetIPv4UDPFrame(srcIP [4]byte, srcPort, dstPort uint16) []byte {
	udp := make([]byte, 8)
	binary.BigEndian.PutUint16(udp[0:2], srcPort)
	binary.BigEndian.PutUint16(udp[2:4], dstPort)
	binary.BigEndian.PutUint16(udp[4:6], 8)

	ip := make([]byte, 20+len(udp))
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], uint16(len(ip)))
	ip[9] = 17
	copy(ip[12:16], srcIP[:])
	copy(ip[16:20], []byte{10, 0, 0, 2})
	copy(ip[20:], udp)

	frame := make([]byte, 14+len(ip))
	frame[12], frame[13] = 0x08, 0x00
	copy(frame[14:], ip)
	return frame
}

func TestWorkerRunFoldsDecodedFramesIntoAggregator(t *testing.T) {
	sess := &fakeSession{frames: [][]byte{
		ethernetIPv4UDPFrame([4]byte{10, 0, 0, 1}, 1234, 53),
		ethernetIPv4UDPFrame([4]byte{10, 0, 0, 1}, 1235, 53),
	}}
	driver := &fakeDriver{
		ifaces:   []Interface{{Name: "eth0"}},
		sessions: map[string]*fakeSession{"eth0": sess},
		openErr:  map[string]error{},
	}

	agg := aggregator.New()
	reg := NewRegistry()

	w, err := New(driver, Interface{Name: "eth0"}, "", agg, reg)
	if err != nil {
		t.Fatalf("New err = %v; want nil", err)
	}

	w.Run()
	w.Wait()

	if agg.Len() != 1 {
		t.Fatalf("agg.Len() = %d; want 1", agg.Len())
	}
	rows := agg.Snapshot()
	if rows[0].Stats.PacketCount != 2 {
		t.Errorf("PacketCount = %d; want 2", rows[0].Stats.PacketCount)
	}
	if !sess.closed {
		t.Error("session was not closed after Run returned")
	}
	if reg.Label("eth0") != "" {
		t.Error("registry entry for eth0 was not unbound after Run returned")
	}
}

func TestWorkerRunStopBreaksLoop(t *testing.T) {
	sess := &fakeSession{frames: nil}
	driver := &fakeDriver{
		ifaces:   []Interface{{Name: "eth0"}},
		sessions: map[string]*fakeSession{"eth0": sess},
		openErr:  map[string]error{},
	}

	w, err := New(driver, Interface{Name: "eth0"}, "", aggregator.New(), NewRegistry())
	if err != nil {
		t.Fatalf("New err = %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()

	w.Stop()
	<-done
	w.Wait()
}

func TestNewSkipsOnOpenFailure(t *testing.T) {
	driver := &fakeDriver{
		ifaces:  []Interface{{Name: "eth0"}},
		openErr: map[string]error{"eth0": errors.New("permission denied")},
	}

	if _, err := New(driver, Interface{Name: "eth0"}, "", aggregator.New(), NewRegistry()); err == nil {
		t.Fatal("expected an error from New when OpenLive fails, got nil")
	}
}

func TestRegistryBindLabelUnbind(t *testing.T) {
	r := NewRegistry()
	r.Bind("handle1", "eth0")

	if got := r.Label("handle1"); got != "eth0" {
		t.Fatalf("Label(handle1) = %q; want eth0", got)
	}

	r.Unbind("handle1")
	if got := r.Label("handle1"); got != "" {
		t.Fatalf("Label(handle1) after Unbind = %q; want empty", got)
	}
}
