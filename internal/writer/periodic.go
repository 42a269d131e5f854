// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package writer

import (
	"encoding/csv"
	"os"
	"strings"
	"time"

	log "github.com/flowcap/flowcap/pkg/minilog"

	"github.com/flowcap/flowcap/internal/aggregator"
	"github.com/flowcap/flowcap/internal/codec"
)

// Periodic wakes on a fixed interval, snapshots an aggregator, and
// writes an authenticated-encrypted CSV record stream to a file,
// truncating and rewriting the file from scratch on every tick (§4.F).
type Periodic struct {
	Agg      *aggregator.Aggregator
	Path     string
	Interval time.Duration
	Key      codec.Key

	// Now is overridable for tests; defaults to time.Now when nil.
	Now func() time.Time
}

// Run blocks, ticking every p.Interval, until stop is closed. It never
// returns an error -- per-tick I/O failures are logged and retried on
// the next tick (§7); the Periodic Writer performing one final
// iteration on shutdown is explicitly not required.
func (p *Periodic) Run(stop <-chan struct{}) {
	now := p.Now
	if now == nil {
		now = time.Now
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			log.Info("periodic writer: stopping")
			return
		case <-ticker.C:
			if err := p.tick(now()); err != nil {
				log.Error("periodic writer: %v", err)
			}
		}
	}
}

func (p *Periodic) tick(now time.Time) error {
	rows := p.Agg.Snapshot()

	f, err := os.Create(p.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := codec.NewWriter(f, p.Key)

	header, err := csvLine(Header())
	if err != nil {
		return err
	}
	if err := w.WriteRecord(header); err != nil {
		return err
	}

	for _, r := range rows {
		line, err := csvLine(Row(r, now))
		if err != nil {
			return err
		}
		if err := w.WriteRecord(line); err != nil {
			return err
		}
	}

	return nil
}

// csvLine renders fields as a single CSV line (no trailing newline),
// using encoding/csv so values containing commas or quotes are escaped
// per RFC 4180 rather than joined naively.
func csvLine(fields []string) ([]byte, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(fields); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(sb.String(), "\r\n")), nil
}
