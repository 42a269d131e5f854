// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package engine wires together the capture workers, the aggregator,
// the periodic and on-demand writers, and the shutdown signal on one
// explicit context object (§9's Design Note against ambient globals --
// unlike the source program, nothing here lives in a package-level
// var).
package engine

import (
	"time"

	"github.com/flowcap/flowcap/internal/codec"
	"github.com/flowcap/flowcap/internal/worker"
)

// Config holds every configuration input named in §6.
type Config struct {
	// Interfaces restricts capture to these interface names; empty
	// means "every interface EnumerateInterfaces reports".
	Interfaces []string

	// Preset selects a BPF port filter; PresetNone captures everything.
	Preset worker.Preset

	EncryptedOutPath string
	PlainOutPath     string
	Interval         time.Duration

	Key codec.Key
}

// DefaultConfig returns the configuration defaults named in §6.
func DefaultConfig() Config {
	return Config{
		Preset:           worker.PresetNone,
		EncryptedOutPath: "packet_capture_encrypted.csv",
		PlainOutPath:     "packet_capture_decrypted.csv",
		Interval:         10 * time.Second,
	}
}
