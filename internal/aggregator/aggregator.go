// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package aggregator holds the shared, concurrent flow table. A single
// mutual-exclusion domain guards it: the per-update critical section is
// O(1) amortised (one map lookup plus a handful of small-set inserts),
// so one lock is sufficient -- the contract leaves per-bucket striping
// as an allowed but not required optimisation. This mirrors the
// teacher's own global-lock-around-a-map idiom (bridgeLock in
// internal/bridge/bridge.go).
package aggregator

import (
	"sync"
	"time"

	"github.com/flowcap/flowcap/internal/flow"
)

// Aggregator is the shared map from flow key to flow stats. The zero
// value is not usable; construct with New.
type Aggregator struct {
	mu    sync.Mutex
	flows map[flow.Key]*flow.Stats
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		flows: make(map[flow.Key]*flow.Stats),
	}
}

// Update inserts-or-modifies the entry for key with a single packet
// observation, per §4.C. It is the only mutating entry point into the
// table and is safe for concurrent use by any number of capture
// workers.
func (a *Aggregator) Update(key flow.Key, obs flow.Observation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.flows[key]
	if !ok {
		s = flow.New(obs.Now)
		a.flows[key] = s
	}

	s.Apply(obs)
}

// Row is one flow key paired with a value snapshot of its stats.
type Row struct {
	Key   flow.Key
	Stats flow.Snapshot
}

// Snapshot produces a consistent point-in-time copy of the table.
// Ordering among rows is unspecified but stable within a single call
// (the rows are sorted so that two snapshots with no intervening
// updates compare equal as sets and, conveniently, as sequences).
func (a *Aggregator) Snapshot() []Row {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := make([]Row, 0, len(a.flows))
	for k, s := range a.flows {
		rows = append(rows, Row{Key: k, Stats: s.Snapshot()})
	}

	sortRows(rows)
	return rows
}

// Len reports the number of live flow keys. Used by tests and by the
// lifecycle controller's shutdown diagnostics.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.flows)
}

// MonthlyAvgPPS computes packet_count / max(1, now - month_anchor) in
// packets per second, per §4.F. The elapsed time is counted in whole
// seconds; the result is a fractional rate, not rounded.
func MonthlyAvgPPS(s flow.Snapshot, now time.Time) float64 {
	elapsed := now.Unix() - s.MonthAnchor.Unix()
	if elapsed < 1 {
		elapsed = 1
	}
	return float64(s.PacketCount) / float64(elapsed)
}
