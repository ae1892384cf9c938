// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command cnrd is the consensus-core node entrypoint: it parses
// configuration, wires up logging, loads the checkpoint registry for the
// selected network, and opens the on-disk chain view the difficulty and
// reward engines read through. It does not run a peer-to-peer server,
// mempool, or RPC transport -- those are out of scope for this core, per
// the checkpoints/difficulty/pow/reward consensus surface it exposes.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cnreserve/cnrd/consensus/checkpoint"
	"github.com/cnreserve/cnrd/consensus/forks"
	"github.com/cnreserve/cnrd/internal/chainview"
	"github.com/cnreserve/cnrd/internal/clog"
	"github.com/cnreserve/cnrd/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, _, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("cnrd: config error: %v", err)
	}
	if cfg.ShowVersion {
		fmt.Println("cnrd version 0.1.0")
		return nil
	}

	logFile := filepath.Join(cfg.LogDir, "cnrd.log")
	if err := clog.InitLogRotator(logFile); err != nil {
		return fmt.Errorf("cnrd: failed to init log rotator: %v", err)
	}
	clog.SetLogLevels(cfg.DebugLevel)

	net := cfg.NetParams()
	fmt.Printf("cnrd starting on %s (data dir %s)\n", net.Name, cfg.DataDir)

	registry := checkpoint.New()
	registry.InitDefault(net.Net)

	if err := registry.LoadFromJSON(cfg.CheckpointsFile); err != nil {
		return fmt.Errorf("cnrd: failed to load checkpoints file: %v", err)
	}
	if net.EnableDNSCkpts {
		if err := registry.LoadFromDNS(net.Net); err != nil {
			return fmt.Errorf("cnrd: DNS checkpoint bootstrap failed: %v", err)
		}
	}
	fmt.Printf("loaded checkpoints through height %d\n", registry.MaxPinnedHeight())

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("cnrd: failed to create data directory: %v", err)
	}
	view, err := chainview.OpenLevelDBView(filepath.Join(cfg.DataDir, "chainview"))
	if err != nil {
		return fmt.Errorf("cnrd: failed to open chain view: %v", err)
	}
	defer view.Close()

	fmt.Printf("consensus core ready: current fork version at height 0 is %d\n",
		forks.VersionAt(net.Net, 0))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	fmt.Println("cnrd: shutting down")
	return nil
}
