// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package engine

import (
	"fmt"

	log "github.com/flowcap/flowcap/pkg/minilog"

	"github.com/flowcap/flowcap/internal/aggregator"
	"github.com/flowcap/flowcap/internal/writer"
	"github.com/flowcap/flowcap/internal/worker"
)

// Engine owns the aggregator, the capture workers, and the periodic
// writer for the lifetime of one process. It is the lifecycle
// controller of §4.H: it starts workers, owns the shutdown signal, and
// joins workers on exit.
type Engine struct {
	cfg Config
	agg *aggregator.Aggregator
	reg *worker.Registry

	workers  []*worker.Worker
	periodic *writer.Periodic
	ondemand *writer.OnDemand

	stop chan struct{}
}

// Start enumerates interfaces via driver (restricted to cfg.Interfaces
// if non-empty), opens a capture worker on each, and launches the
// periodic writer. An interface that fails to open, or whose filter
// fails to compile, is logged and skipped -- other interfaces
// continue (§7). Start returns an error only for the fatal
// initialisation failures of §7: interface enumeration failing, or no
// interfaces opened at all.
func Start(cfg Config, driver worker.Driver) (*Engine, error) {
	e := &Engine{
		cfg:  cfg,
		agg:  aggregator.New(),
		reg:  worker.NewRegistry(),
		stop: make(chan struct{}),
	}

	ifaces, err := driver.EnumerateInterfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}
	ifaces = filterInterfaces(ifaces, cfg.Interfaces)

	filter := worker.BuildFilter(cfg.Preset.Ports())

	for _, iface := range ifaces {
		w, err := worker.New(driver, iface, filter, e.agg, e.reg)
		if err != nil {
			log.Error("skipping interface %v: %v", iface.Name, err)
			continue
		}
		e.workers = append(e.workers, w)
	}

	if len(e.workers) == 0 {
		return nil, fmt.Errorf("no interfaces could be opened for capture")
	}

	for _, w := range e.workers {
		go w.Run()
	}

	e.periodic = &writer.Periodic{
		Agg:      e.agg,
		Path:     cfg.EncryptedOutPath,
		Interval: cfg.Interval,
		Key:      cfg.Key,
	}
	go e.periodic.Run(e.stop)

	e.ondemand = &writer.OnDemand{
		Agg:  e.agg,
		Path: cfg.PlainOutPath,
	}

	log.Info("engine started: %d worker(s), writing %v every %v", len(e.workers), cfg.EncryptedOutPath, cfg.Interval)

	return e, nil
}

// DumpNow triggers the on-demand writer (§4.G), in response to the
// operator's "d" command.
func (e *Engine) DumpNow() error {
	return e.ondemand.Dump()
}

// Shutdown clears the running signal, asks every capture session to
// break out of its read loop, and joins all workers before returning.
// The periodic writer is signalled to stop but is not required to
// perform one final snapshot first (§5 Cancellation).
func (e *Engine) Shutdown() {
	log.Info("engine shutting down")

	for _, w := range e.workers {
		w.Stop()
	}
	for _, w := range e.workers {
		w.Wait()
	}

	close(e.stop)

	log.Info("engine stopped, %d flows observed", e.agg.Len())
}

// filterInterfaces restricts ifaces to those named in want, preserving
// the order ifaces was reported in. An empty want means "all".
func filterInterfaces(ifaces []worker.Interface, want []string) []worker.Interface {
	if len(want) == 0 {
		return ifaces
	}

	keep := make(map[string]bool, len(want))
	for _, name := range want {
		keep[name] = true
	}

	var out []worker.Interface
	for _, iface := range ifaces {
		if keep[iface.Name] {
			out = append(out, iface)
		}
	}
	return out
}
