// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/unwriter/datacash/build"
	"github.com/unwriter/datacash/chain"
	"github.com/unwriter/datacash/internal/cfgutil"
	"github.com/unwriter/datacash/netparams"
	"github.com/unwriter/datacash/wallet/txrules"
)

const (
	defaultCAFilename     = "btcd.cert"
	defaultConfigFilename = "datacash.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "datacash.log"
	defaultBackEnd        = "insight"
)

var (
	btcdDefaultCAFile = filepath.Join(btcutil.AppDataDir("btcd", false), "rpc.cert")
	defaultAppDataDir = btcutil.AppDataDir("datacash", false)
	defaultConfigFile = filepath.Join(defaultAppDataDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultAppDataDir, defaultLogDirname)
)

// activeNet is the network transactions are built for, selected by the
// network flags.
var activeNet = &netparams.BCHMainNetParams

type config struct {
	// General application behavior
	ConfigFile    *cfgutil.ExplicitString `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion   bool                    `short:"V" long:"version" description:"Display version information and exit"`
	AppDataDir    *cfgutil.ExplicitString `short:"A" long:"appdata" description:"Application data directory for the config file, certificates and logs"`
	TestNet       bool                    `long:"testnet" description:"Use the test network"`
	RegTest       bool                    `long:"regtest" description:"Use the regression test network"`
	SimNet        bool                    `long:"simnet" description:"Use the simulation test network"`
	BTC           bool                    `long:"btc" description:"Sign for bitcoin (BTC) instead of Bitcoin Cash"`
	DebugLevel    string                  `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir        string                  `long:"logdir" description:"Directory to log output"`
	NoFileLogging bool                    `long:"nofilelogging" description:"Only log to standard error"`

	// Ledger back end options
	BackEnd    string                  `long:"backend" choice:"insight" choice:"rpc" description:"Service used to look up spendable outputs and broadcast"`
	Indexer    *cfgutil.ExplicitString `short:"i" long:"indexer" description:"Base URL of the Insight API server (default depends on the network)"`
	Timeout    time.Duration           `long:"timeout" description:"Timeout of each request made to the Insight API server"`
	RPCConnect string                  `short:"c" long:"rpcconnect" description:"Hostname/IP and port of the wallet enabled node to connect to (default localhost:8332, testnet: localhost:18332)"`
	RPCUser    string                  `short:"u" long:"rpcuser" description:"Username for RPC authentication"`
	RPCPass    string                  `short:"P" long:"rpcpass" default-mask:"-" description:"Password for RPC authentication"`
	CAFile     *cfgutil.ExplicitString `long:"cafile" description:"File containing root certificates to authenticate a TLS connection with the node"`
	NoTLS      bool                    `long:"noclienttls" description:"Disable TLS for the RPC client -- NOTE: This is only allowed if the RPC client is connecting to localhost"`
	MinConf    int                     `long:"minconf" description:"Minimum confirmations of the outputs spent with the rpc back end"`

	// Fee policy options
	Fee          *cfgutil.AmountFlag `long:"fee" description:"Fee to pay, overriding any estimate (satoshis, or coins with a decimal point)"`
	DefaultFee   *cfgutil.AmountFlag `long:"defaultfee" description:"Fee of transactions which are not priced from their size"`
	FeeRate      *cfgutil.AmountFlag `long:"feerate" description:"Fee per kilobyte used to price signed transactions"`
	SafetyMargin uint32              `long:"safetymargin" description:"Percentage added to the estimated size before pricing"`
	DustLimit    *cfgutil.AmountFlag `long:"dustlimit" description:"Smallest output value kept in signed transactions"`

	// Request options
	Request    string   `short:"r" long:"request" description:"JSON request file in the datacash options format, - reads standard input"`
	Tx         string   `long:"tx" description:"Hex of a transaction to start from"`
	Data       []string `long:"data" description:"Item pushed in the data output, 0x prefixed items are hex -- May be repeated"`
	DataScript string   `long:"datascript" description:"Hex of a complete data output script"`
	Key        string   `long:"key" default-mask:"-" description:"WIF private key to fund and sign with"`
	PromptKey  bool     `long:"promptkey" description:"Read the WIF private key from the terminal"`
	To         []string `long:"to" description:"Recipient as <address>:<satoshis> -- May be repeated"`
	Endpoint   string   `long:"endpoint" description:"Insight API server used for this request only"`
	Confirm    bool     `long:"confirm" description:"Ask before broadcasting"`
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultAppDataDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but they variables can still be expanded via POSIX-style
	// $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// selectNetwork picks the network params from the network flags.  Multiple
// networks can't be selected simultaneously.
func selectNetwork(cfg *config) (*netparams.Params, error) {
	numNets := 0
	params := &netparams.BCHMainNetParams
	if cfg.BTC {
		params = &netparams.MainNetParams
	}

	if cfg.TestNet {
		params = &netparams.BCHTestNetParams
		if cfg.BTC {
			params = &netparams.TestNet3Params
		}
		numNets++
	}
	if cfg.RegTest {
		params = &netparams.RegressionNetParams
		numNets++
	}
	if cfg.SimNet {
		params = &netparams.SimNetParams
		numNets++
	}

	if numNets > 1 {
		return nil, errors.New("the testnet, regtest and simnet params " +
			"can't be used together -- choose one")
	}

	return params, nil
}

// newDefaultConfig returns the configuration used before any file or command
// line option is applied.
func newDefaultConfig() config {
	return config{
		ConfigFile:   cfgutil.NewExplicitString(defaultConfigFile),
		AppDataDir:   cfgutil.NewExplicitString(defaultAppDataDir),
		DebugLevel:   defaultLogLevel,
		LogDir:       defaultLogDir,
		BackEnd:      defaultBackEnd,
		Indexer:      cfgutil.NewExplicitString(""),
		Timeout:      chain.DefaultHTTPTimeout,
		CAFile:       cfgutil.NewExplicitString(""),
		Fee:          cfgutil.NewAmountFlag(0),
		DefaultFee:   cfgutil.NewAmountFlag(txrules.DefaultFee),
		FeeRate:      cfgutil.NewAmountFlag(txrules.DefaultRelayFeePerKb),
		SafetyMargin: txrules.DefaultSafetyMargin,
		DustLimit:    cfgutil.NewAmountFlag(txrules.DefaultDustLimit),
	}
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in datacash functioning properly without any config
// settings while still allowing the user to override settings with config files
// and command line options.  Command line options always take precedence.
// The remaining arguments name the command to run.
func loadConfig() (*config, []string, error) {
	cfg := newDefaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file, application data directory or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err := preParser.Parse()
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			preParser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", build.Version())
		os.Exit(0)
	}

	// If an alternate application data directory was specified, paths
	// relative to it follow unless set themselves.
	appDataDir := cleanAndExpandPath(preCfg.AppDataDir.Value)
	configFile := preCfg.ConfigFile.Value
	if preCfg.AppDataDir.ExplicitlySet() {
		if !preCfg.ConfigFile.ExplicitlySet() {
			configFile = filepath.Join(appDataDir, defaultConfigFilename)
		}
		cfg.LogDir = filepath.Join(appDataDir, defaultLogDirname)
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] [build|send]"
	err = flags.NewIniParser(parser).ParseFile(cleanAndExpandPath(configFile))
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) || preCfg.ConfigFile.ExplicitlySet() {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	activeNet, err = selectNetwork(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	if !cfg.NoFileLogging {
		cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
		cfg.LogDir = filepath.Join(cfg.LogDir, activeNet.Network)

		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := initLogRotator(logFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}
	setLogLevels(defaultLogLevel)

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("loadConfig: %w", err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Warn about missing config file after the final command line parse
	// succeeds.  This prevents the warning on help messages and invalid
	// options.
	if configFileError != nil {
		log.Debugf("%v", configFileError)
	}

	if cfg.Key != "" && cfg.PromptKey {
		err := errors.New("loadConfig: the --key and --promptkey " +
			"options can not be used together")
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}
	if len(cfg.Data) > 0 && cfg.DataScript != "" {
		err := errors.New("loadConfig: the --data and --datascript " +
			"options can not be used together")
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}
	if cfg.MinConf < 0 {
		err := errors.New("loadConfig: --minconf must not be negative")
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	if !cfg.Indexer.ExplicitlySet() {
		cfg.Indexer.Value = activeNet.IndexerURL
	}

	if cfg.BackEnd == "rpc" {
		if err := normalizeRPCOptions(&cfg, appDataDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	return &cfg, remainingArgs, nil
}

// normalizeRPCOptions fills in the defaults of the rpc back end options that
// depend on the network and checks TLS is only disabled for local nodes.
func normalizeRPCOptions(cfg *config, appDataDir string) error {
	if cfg.RPCConnect == "" {
		cfg.RPCConnect = net.JoinHostPort("localhost",
			activeNet.RPCClientPort)
	}

	// Add default port to connect flag if missing.
	var err error
	cfg.RPCConnect, err = cfgutil.NormalizeAddress(cfg.RPCConnect,
		activeNet.RPCClientPort)
	if err != nil {
		return fmt.Errorf("invalid rpcconnect network address: %w", err)
	}

	localhostListeners := map[string]struct{}{
		"localhost": {},
		"127.0.0.1": {},
		"::1":       {},
	}
	rpcHost, _, err := net.SplitHostPort(cfg.RPCConnect)
	if err != nil {
		return err
	}

	if cfg.NoTLS {
		if _, ok := localhostListeners[rpcHost]; !ok {
			return fmt.Errorf("the --noclienttls option may not be "+
				"used when connecting RPC to non localhost "+
				"addresses: %s", cfg.RPCConnect)
		}
		return nil
	}

	// If CAFile is unset, choose either the copy or local btcd cert.
	if !cfg.CAFile.ExplicitlySet() {
		cfg.CAFile.Value = filepath.Join(appDataDir, defaultCAFilename)

		// If the CA copy does not exist, check if we're connecting to
		// a local btcd and switch to its RPC cert if it exists.
		certExists, err := cfgutil.FileExists(cfg.CAFile.Value)
		if err != nil {
			return err
		}
		if !certExists {
			if _, ok := localhostListeners[rpcHost]; ok {
				btcdCertExists, err := cfgutil.FileExists(
					btcdDefaultCAFile)
				if err != nil {
					return err
				}
				if btcdCertExists {
					cfg.CAFile.Value = btcdDefaultCAFile
				}
			}
		}
	}
	cfg.CAFile.Value = cleanAndExpandPath(cfg.CAFile.Value)

	return nil
}
