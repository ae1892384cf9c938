// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses cnrd's command-line flags and an optional INI
// config file into a single Config struct, following the
// jessevdk/go-flags two-pass pattern (a first pass for -C/--configfile
// and -V/--version, a second pass combining the file with the command
// line so flags win).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/cnreserve/cnrd/consensus/types"
)

const (
	defaultConfigFilename  = "cnrd.conf"
	defaultDataDirname     = "data"
	defaultLogLevel        = "info"
	defaultLogFilename     = "cnrd.log"
	defaultCheckpointsFile = "checkpoints.json"
)

// NetParams bundles the per-network constants the rest of the process
// needs at startup: which consensus NetworkType to run as, where its
// default data lives, and whether DNS checkpoint bootstrapping is
// enabled for it by default (disabled on stagenet; --nodnscheckpoints
// disables it on any network).
type NetParams struct {
	Name           string
	Net            types.NetworkType
	DefaultPort    string
	EnableDNSCkpts bool
}

var (
	mainNetParams = NetParams{Name: "mainnet", Net: types.Main, DefaultPort: "17180", EnableDNSCkpts: true}
	testNetParams = NetParams{Name: "testnet", Net: types.Test, DefaultPort: "27180", EnableDNSCkpts: true}
	stageNetParams = NetParams{Name: "stagenet", Net: types.Stage, DefaultPort: "37180", EnableDNSCkpts: false}
)

// Config is the fully resolved set of runtime options.
type Config struct {
	ConfigFile      string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion     bool   `short:"V" long:"version" description:"Display version information and exit"`
	DataDir         string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir          string `long:"logdir" description:"Directory to log output"`
	TestNet         bool   `long:"testnet" description:"Use the test network"`
	StageNet        bool   `long:"stagenet" description:"Use the staging network"`
	DebugLevel      string `short:"d" long:"debuglevel" description:"Logging level for all subsystems"`
	CheckpointsFile string `long:"checkpoints" description:"Path to a JSON checkpoints file to load at startup"`
	NoDNSCheckpoints bool  `long:"nodnscheckpoints" description:"Disable DNS TXT checkpoint bootstrapping"`
	RPCListen       string `long:"rpclisten" description:"Add an address:port to listen for RPC connections"`

	netParams NetParams
}

// NetParams returns the resolved network parameters after Load has run.
func (c *Config) NetParams() NetParams {
	return c.netParams
}

func defaultHomeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, ".cnrd")
}

func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		path = filepath.Join(defaultHomeDir(), path[1:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// Load parses args (normally os.Args[1:]) into a Config, applying
// defaults and the three-way network selection (mainnet unless
// --testnet or --stagenet is given; they are mutually exclusive).
func Load(args []string) (*Config, []string, error) {
	home := defaultHomeDir()

	cfg := Config{
		ConfigFile:      filepath.Join(home, defaultConfigFilename),
		DataDir:         filepath.Join(home, defaultDataDirname),
		LogDir:          home,
		DebugLevel:      defaultLogLevel,
		CheckpointsFile: filepath.Join(home, defaultCheckpointsFile),
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default&^flags.PrintErrors&^flags.HelpFlag|flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, nil, err
	}
	if preCfg.ShowVersion {
		return &preCfg, nil, nil
	}

	if preCfg.ConfigFile != "" {
		configFile := cleanAndExpandPath(preCfg.ConfigFile)
		parser := flags.NewParser(&cfg, flags.Default)
		err := flags.NewIniParser(parser).ParseFile(configFile)
		if err != nil {
			if _, ok := err.(*os.PathError); !ok {
				return nil, nil, fmt.Errorf("config: error parsing config file: %w", err)
			}
		}
	}

	parser := flags.NewParser(&cfg, flags.Default)
	remaining, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.CheckpointsFile = cleanAndExpandPath(cfg.CheckpointsFile)

	if cfg.TestNet && cfg.StageNet {
		return nil, nil, fmt.Errorf("config: testnet and stagenet cannot both be specified")
	}
	switch {
	case cfg.TestNet:
		cfg.netParams = testNetParams
		cfg.DataDir = filepath.Join(cfg.DataDir, testNetParams.Name)
	case cfg.StageNet:
		cfg.netParams = stageNetParams
		cfg.DataDir = filepath.Join(cfg.DataDir, stageNetParams.Name)
	default:
		cfg.netParams = mainNetParams
	}

	if cfg.NoDNSCheckpoints {
		cfg.netParams.EnableDNSCkpts = false
	}

	return &cfg, remaining, nil
}
