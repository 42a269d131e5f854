// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package flow

import "time"

// Stats is the mutable per-flow accumulator owned by the aggregator.
// The counters and the port and hour sets grow monotonically for the
// lifetime of the process -- there is no eviction and nothing is ever
// removed from the port or hour sets once inserted. AppName and
// LinkKind are overwritten by later observations.
type Stats struct {
	PacketCount uint64
	ByteCount   uint64

	SrcPorts map[string]struct{}
	DstPorts map[string]struct{}

	FirstSeen   time.Time
	LastSeen    time.Time
	MonthAnchor time.Time

	HoursSeen map[int]struct{}

	AppName  string
	LinkKind string
}

// New creates a freshly-observed Stats: first_seen and month_anchor
// are pinned once, here, and never mutated again.
func New(now time.Time) *Stats {
	return &Stats{
		SrcPorts:    make(map[string]struct{}),
		DstPorts:    make(map[string]struct{}),
		HoursSeen:   make(map[int]struct{}),
		FirstSeen:   now,
		LastSeen:    now,
		MonthAnchor: startOfMonth(now),
	}
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Observation is one packet's contribution to a flow, already decoded
// and ready to fold into Stats. Ports and AppName may be empty, meaning
// "not applicable" / "none observed" respectively.
type Observation struct {
	Now      time.Time
	WireLen  uint64
	SrcPort  string
	DstPort  string
	AppName  string
	LinkKind string
}

// Apply folds obs into the stats in place, per §4.C step 3-7. It does
// not touch FirstSeen/MonthAnchor -- those are set once at creation.
func (s *Stats) Apply(obs Observation) {
	s.LastSeen = obs.Now
	s.PacketCount++
	s.ByteCount += obs.WireLen

	if obs.SrcPort != "" {
		s.SrcPorts[obs.SrcPort] = struct{}{}
	}
	if obs.DstPort != "" {
		s.DstPorts[obs.DstPort] = struct{}{}
	}

	s.HoursSeen[obs.Now.Hour()] = struct{}{}

	if obs.AppName != "" {
		s.AppName = obs.AppName
	}
	s.LinkKind = obs.LinkKind
}

// Snapshot is a value copy of Stats suitable for serialisation; it does
// not share the mutable maps with the live entry.
type Snapshot struct {
	PacketCount uint64
	ByteCount   uint64

	SrcPorts []string
	DstPorts []string

	FirstSeen   time.Time
	LastSeen    time.Time
	MonthAnchor time.Time

	HoursSeen []int

	AppName  string
	LinkKind string
}

// Snapshot copies s into an independent Snapshot value.
func (s *Stats) Snapshot() Snapshot {
	out := Snapshot{
		PacketCount: s.PacketCount,
		ByteCount:   s.ByteCount,
		FirstSeen:   s.FirstSeen,
		LastSeen:    s.LastSeen,
		MonthAnchor: s.MonthAnchor,
		AppName:     s.AppName,
		LinkKind:    s.LinkKind,
	}

	for p := range s.SrcPorts {
		out.SrcPorts = append(out.SrcPorts, p)
	}
	for p := range s.DstPorts {
		out.DstPorts = append(out.DstPorts, p)
	}
	for h := range s.HoursSeen {
		out.HoursSeen = append(out.HoursSeen, h)
	}

	return out
}
