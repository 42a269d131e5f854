// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package aggregator

import "sort"

// sortRows gives Snapshot a stable, deterministic row order so that two
// snapshots taken with no intervening updates are not just equal as
// sets but compare equal as sequences too.
func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Key, rows[j].Key
		if a.InterfaceLabel != b.InterfaceLabel {
			return a.InterfaceLabel < b.InterfaceLabel
		}
		if a.PeerAddress != b.PeerAddress {
			return a.PeerAddress < b.PeerAddress
		}
		return a.Transport < b.Transport
	})
}
