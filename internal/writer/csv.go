// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package writer implements the periodic authenticated-encrypted
// snapshot writer and the on-demand cleartext snapshot writer -- the
// two consumers of an aggregator.Snapshot.
package writer

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flowcap/flowcap/internal/aggregator"
)

const naPlaceholder = "n/a"

// Header is the CSV header row, identical for both the encrypted and
// cleartext snapshot files.
func Header() []string {
	return []string{
		"hours_of_day", "interface", "peer_address", "app_name",
		"src_ports", "dst_ports", "transport", "link_kind",
		"monthly_avg_pps", "packet_count", "byte_count", "app_name",
	}
}

// Row renders one aggregator.Row as a CSV record, per §4.F's column
// order. app_name appears twice (columns 4 and 12) -- that duplication
// is in the spec's column list verbatim, not a bug introduced here.
func Row(r aggregator.Row, now time.Time) []string {
	appName := orNA(r.Stats.AppName)

	return []string{
		joinInts(r.Stats.HoursSeen),
		r.Key.InterfaceLabel,
		r.Key.PeerAddress,
		appName,
		joinPorts(r.Stats.SrcPorts),
		joinPorts(r.Stats.DstPorts),
		r.Key.Transport,
		orNA(r.Stats.LinkKind),
		strconv.FormatFloat(aggregator.MonthlyAvgPPS(r.Stats, now), 'f', -1, 64),
		strconv.FormatUint(r.Stats.PacketCount, 10),
		strconv.FormatUint(r.Stats.ByteCount, 10),
		appName,
	}
}

func orNA(s string) string {
	if s == "" {
		return naPlaceholder
	}
	return s
}

func joinPorts(ports []string) string {
	if len(ports) == 0 {
		return naPlaceholder
	}
	sorted := append([]string(nil), ports...)
	sort.Strings(sorted)
	return strings.Join(sorted, ";")
}

func joinInts(hours []int) string {
	if len(hours) == 0 {
		return naPlaceholder
	}
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, h := range sorted {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ";")
}
