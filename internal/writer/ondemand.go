// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package writer

import (
	"encoding/csv"
	"os"
	"time"

	log "github.com/flowcap/flowcap/pkg/minilog"

	"github.com/flowcap/flowcap/internal/aggregator"
)

// OnDemand writes a single cleartext CSV snapshot on request. It runs
// concurrently with Periodic; both take independent snapshots of the
// same aggregator.
type OnDemand struct {
	Agg  *aggregator.Aggregator
	Path string

	Now func() time.Time
}

// Dump writes one cleartext snapshot to o.Path, truncating any
// existing file. A failure to create the file or to flush the CSV out
// to it is logged and returned; every error is returned. The caller
// (the command loop) does not retry -- the next "d" command does.
func (o *OnDemand) Dump() error {
	now := o.Now
	if now == nil {
		now = time.Now
	}

	rows := o.Agg.Snapshot()

	f, err := os.Create(o.Path)
	if err != nil {
		log.Error("on-demand writer: %v", err)
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(Row(r, now())); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Error("on-demand writer: %v", err)
		return err
	}

	log.Info("on-demand writer: wrote %d rows to %v", len(rows), o.Path)
	return nil
}
