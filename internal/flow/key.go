// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package flow defines the flow identity and per-flow accumulator that
// the aggregator folds per-packet observations into.
package flow

// Key is the canonical flow identity: an (interface, source address,
// transport) triple. It is comparable and used directly as a map key by
// the aggregator. Destination and source ports are deliberately not
// part of the key -- they accumulate in Stats so that an N:1
// server-side pattern collapses onto a single row.
type Key struct {
	InterfaceLabel string
	PeerAddress    string
	Transport      string
}
