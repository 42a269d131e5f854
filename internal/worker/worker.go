// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

package worker

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/gopacket/pcap"

	log "github.com/flowcap/flowcap/pkg/minilog"

	"github.com/flowcap/flowcap/internal/aggregator"
	"github.com/flowcap/flowcap/internal/decode"
	"github.com/flowcap/flowcap/internal/flow"
)

// Worker captures frames from one interface, decodes them, and folds
// the result into an aggregator. One Worker runs per opened interface
// (§4.E); workers never communicate with each other and never block on
// I/O other than the capture read.
type Worker struct {
	Label    string
	Filter   string
	Session  Session
	Agg      *aggregator.Aggregator
	Registry *Registry

	stopped uint64
	done    chan struct{}
}

// New opens a live capture session on iface via driver, applies filter
// (if non-empty), and returns a Worker ready to Run. A filter compile
// failure is returned to the caller, which (per §4.E) skips the
// interface and continues with others; a capture-open failure is
// likewise returned rather than retried.
func New(driver Driver, iface Interface, filter string, agg *aggregator.Aggregator, reg *Registry) (*Worker, error) {
	session, err := driver.OpenLive(iface.Name)
	if err != nil {
		return nil, fmt.Errorf("open %v: %w", iface.Name, err)
	}

	if filter != "" {
		if err := session.SetBPFFilter(filter); err != nil {
			session.Close()
			return nil, fmt.Errorf("compile filter on %v: %w", iface.Name, err)
		}
	}

	reg.Bind(iface.Name, iface.Name)

	return &Worker{
		Label:    iface.Name,
		Filter:   filter,
		Session:  session,
		Agg:      agg,
		Registry: reg,
		done:     make(chan struct{}),
	}, nil
}

// Run reads frames until Stop is called, decoding each one and folding
// it into the aggregator. A failed decode is silent: no error, no flow
// update (§7). Run returns once the session's read loop has been
// asked to break and the in-flight frame (if any) has finished
// decoding.
func (w *Worker) Run() {
	defer close(w.done)
	defer w.Session.Close()
	defer w.Registry.Unbind(w.Label)

	log.Info("capture worker starting: %v filter=%q", w.Label, w.Filter)

	for atomic.LoadUint64(&w.stopped) == 0 {
		data, ci, err := w.Session.ReadPacketData()
		if err == pcap.NextErrorTimeoutExpired {
			continue
		}
		if err != nil {
			if atomic.LoadUint64(&w.stopped) == 0 {
				log.Error("capture worker %v: %v", w.Label, err)
			}
			return
		}

		w.handleFrame(data, uint64(ci.Length))
	}

	log.Info("capture worker stopped: %v", w.Label)
}

// Stop requests the worker's read loop to break. It does not block;
// call Wait to join.
func (w *Worker) Stop() {
	atomic.StoreUint64(&w.stopped, 1)
}

// Wait blocks until Run has returned.
func (w *Worker) Wait() {
	<-w.done
}

func (w *Worker) handleFrame(frame []byte, wireLen uint64) {
	pkt, ok := decode.Decode(frame)
	if !ok {
		return
	}

	label := w.Registry.Label(w.Label)
	logVPNRecognition(label, pkt)

	key := flow.Key{
		InterfaceLabel: label,
		PeerAddress:    pkt.SrcIP,
		Transport:      pkt.Transport,
	}

	w.Agg.Update(key, flow.Observation{
		Now:      time.Now(),
		WireLen:  wireLen,
		SrcPort:  pkt.SrcPort,
		DstPort:  pkt.DstPort,
		AppName:  pkt.AppName,
		LinkKind: pkt.LinkKind,
	})
}

// logVPNRecognition surfaces the IKEv2/NAT-T and WireGuard recognition
// decoded in decode.Decode -- diagnostic only, neither affects
// FlowStats beyond the packet/byte totals every UDP packet gets.
func logVPNRecognition(label string, pkt decode.Packet) {
	if pkt.IKEExchange != "" {
		log.Debug("%v: IKEv2 %v from %v", label, pkt.IKEExchange, pkt.SrcIP)
	}
	if pkt.IsWireGuard {
		log.Debug("%v: WireGuard message from %v", label, pkt.SrcIP)
	}
}
