// Copyright 2016-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// flowcapd captures traffic on one or more interfaces, aggregates it
// into per-flow statistics, and periodically writes an encrypted CSV
// snapshot. Typing "d" on stdin writes an immediate cleartext snapshot.
package main

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/flowcap/flowcap/pkg/minilog"

	"github.com/flowcap/flowcap/internal/codec"
	"github.com/flowcap/flowcap/internal/engine"
	"github.com/flowcap/flowcap/internal/worker"
)

var (
	f_iface        = flag.String("iface", "", "comma-separated interfaces to capture on (default: all)")
	f_preset       = flag.String("bpf-preset", "none", "BPF port preset: none, vpn, dns-bgp")
	f_interval     = flag.Duration("interval", 10*time.Second, "snapshot write interval")
	f_outEncrypted = flag.String("out-encrypted", "packet_capture_encrypted.csv", "path to the periodic encrypted snapshot")
	f_outPlain     = flag.String("out-plain", "packet_capture_decrypted.csv", "path to the on-demand cleartext snapshot")
	f_keyfile      = flag.String("keyfile", "", "path to a 32-byte binary secret key")
)

func main() {
	flag.Parse()
	log.Init()

	cfg := engine.DefaultConfig()
	if *f_iface != "" {
		cfg.Interfaces = strings.Split(*f_iface, ",")
	}

	preset := worker.Preset(*f_preset)
	switch preset {
	case worker.PresetNone, worker.PresetVPN, worker.PresetDNSBGP:
		cfg.Preset = preset
	default:
		log.Fatal("unknown -bpf-preset %q", *f_preset)
	}

	cfg.Interval = *f_interval
	cfg.EncryptedOutPath = *f_outEncrypted
	cfg.PlainOutPath = *f_outPlain

	key, err := loadKey(*f_keyfile)
	if err != nil {
		log.Fatal("loading secret key: %v", err)
	}
	cfg.Key = key

	e, err := engine.Start(cfg, worker.PcapDriver{})
	if err != nil {
		log.Fatal("starting engine: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go commandLoop(e, done)

	select {
	case <-sig:
		log.Info("received interrupt, shutting down")
	case <-done:
		log.Info("stdin closed, shutting down")
	}

	e.Shutdown()
}

// commandLoop reads operator commands from stdin. The only command is
// "d", which writes an immediate cleartext snapshot (§4.G). It closes
// done when stdin reaches EOF, so the process can also be driven from
// a pipe that simply closes.
func commandLoop(e *engine.Engine, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "d":
			if err := e.DumpNow(); err != nil {
				log.Error("on-demand dump failed: %v", err)
			}
		case "":
			// ignore blank lines
		default:
			log.Warn("unrecognized command %q", scanner.Text())
		}
	}
}

// loadKey resolves the secret key from -keyfile or FLOWCAP_KEY, per
// §10.B. Exactly one source must be supplied.
func loadKey(keyfile string) (codec.Key, error) {
	envKey, hasEnv := os.LookupEnv("FLOWCAP_KEY")

	switch {
	case keyfile != "" && hasEnv:
		return codec.Key{}, fmt.Errorf("-keyfile and FLOWCAP_KEY are mutually exclusive")
	case keyfile != "":
		return readKeyFile(keyfile)
	case hasEnv:
		return decodeKeyString(envKey)
	default:
		return codec.Key{}, fmt.Errorf("no secret key supplied: pass -keyfile or set FLOWCAP_KEY")
	}
}

func readKeyFile(path string) (codec.Key, error) {
	var key codec.Key

	raw, err := os.ReadFile(path)
	if err != nil {
		return key, err
	}
	if len(raw) != codec.KeySize {
		return key, fmt.Errorf("%s: want %d bytes, got %d", path, codec.KeySize, len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// decodeKeyString accepts a hex or base64 encoding of a 32-byte key,
// trying hex first since it cannot be mistaken for valid base64 of a
// different length by coincidence at this size.
func decodeKeyString(s string) (codec.Key, error) {
	var key codec.Key

	s = strings.TrimSpace(s)

	if raw, err := hex.DecodeString(s); err == nil && len(raw) == codec.KeySize {
		copy(key[:], raw)
		return key, nil
	}

	if raw, err := base64.StdEncoding.DecodeString(s); err == nil && len(raw) == codec.KeySize {
		copy(key[:], raw)
		return key, nil
	}

	return key, fmt.Errorf("FLOWCAP_KEY: expected %d bytes hex or base64 encoded", codec.KeySize)
}
