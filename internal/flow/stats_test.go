// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package flow

import (
	"testing"
	"time"
)

func TestNewPinsFirstSeenAndMonthAnchor(t *testing.T) {
	now := time.Date(2026, time.March, 15, 13, 0, 0, 0, time.UTC)

	s := New(now)
	if !s.FirstSeen.Equal(now) {
		t.Errorf("FirstSeen = %v; want %v", s.FirstSeen, now)
	}
	if !s.LastSeen.Equal(now) {
		t.Errorf("LastSeen = %v; want %v", s.LastSeen, now)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !s.MonthAnchor.Equal(want) {
		t.Errorf("MonthAnchor = %v; want %v", s.MonthAnchor, want)
	}
}

func TestApplyAccumulates(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := New(base)

	s.Apply(Observation{Now: base.Add(time.Minute), WireLen: 100, SrcPort: "1234", DstPort: "53", AppName: "example.com", LinkKind: "Ethernet II"})
	s.Apply(Observation{Now: base.Add(time.Hour), WireLen: 50, SrcPort: "5678", DstPort: "53", LinkKind: "Ethernet II"})

	if s.PacketCount != 2 {
		t.Errorf("PacketCount = %d; want 2", s.PacketCount)
	}
	if s.ByteCount != 150 {
		t.Errorf("ByteCount = %d; want 150", s.ByteCount)
	}
	if len(s.SrcPorts) != 2 {
		t.Errorf("len(SrcPorts) = %d; want 2", len(s.SrcPorts))
	}
	if len(s.DstPorts) != 1 {
		t.Errorf("len(DstPorts) = %d; want 1 (both observations use port 53)", len(s.DstPorts))
	}
	if len(s.HoursSeen) != 2 {
		t.Errorf("len(HoursSeen) = %d; want 2 (hour 0 and hour 1)", len(s.HoursSeen))
	}

	// AppName carries forward from the first observation: the second
	// observation's empty AppName must not clobber it.
	if s.AppName != "example.com" {
		t.Errorf("AppName = %q; want example.com to survive an empty follow-up observation", s.AppName)
	}

	if !s.FirstSeen.Equal(base) {
		t.Errorf("FirstSeen mutated by Apply: got %v, want unchanged %v", s.FirstSeen, base)
	}
	if !s.LastSeen.Equal(base.Add(time.Hour)) {
		t.Errorf("LastSeen = %v; want the latest observation's time", s.LastSeen)
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	s := New(base)
	s.Apply(Observation{Now: base, WireLen: 10, SrcPort: "1", LinkKind: "Ethernet II"})

	snap := s.Snapshot()
	s.Apply(Observation{Now: base, WireLen: 10, SrcPort: "2", LinkKind: "Ethernet II"})

	if len(snap.SrcPorts) != 1 {
		t.Errorf("snapshot mutated after being taken: len(SrcPorts) = %d; want 1", len(snap.SrcPorts))
	}
	if snap.ByteCount != 10 {
		t.Errorf("snapshot ByteCount = %d; want 10 (taken before the second Apply)", snap.ByteCount)
	}
}
