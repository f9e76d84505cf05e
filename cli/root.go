// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package cli implements the htlc command tree. Every command prints a JSON
// envelope on stdout and logs to stderr or the configured log file.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bitfsorg/libhtlc-go/config"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// EnvPrefix prefixes environment overrides, e.g. HTLC_DATADIR or
// HTLC_LOG_LEVEL.
const EnvPrefix = "HTLC"

// RootOptions holds the settings resolved before any subcommand runs.
type RootOptions struct {
	Config config.Config
	Log    *zap.Logger
	Now    uint64 // oracle override in ms; zero reads the wall clock
	From   string // caller address

	flags *pflag.FlagSet
}

// NewRootCommand creates the root command for the htlc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "htlc",
		Short: "Hash time-locked escrow ledger",
		Long: `Create, redeem and refund hash time-locked escrows on a local ledger.

A lock holds coins until either the holder of the secret whose SHA-256
digest the lock names redeems it to the target address, or the deadline
passes and a party to the lock refunds it to the refund address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.Log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("datadir", "", "data directory (default ~/.htlc)")
	pf.String("config", "", "config file (default <datadir>/config)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-file", "", "log file (default stderr)")
	pf.String("denom", "", "denomination for bare amounts")
	pf.Uint64("now", 0, "override the oracle time in ms since the epoch")
	pf.String("from", "", "caller address")
	opts.flags = pf

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewRedeemCommand(opts))
	cmd.AddCommand(NewRefundCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewMintCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewHashCommand(opts))

	return cmd
}

// resolve layers flags over HTLC_* environment variables over the config
// file over built-in defaults.
func (o *RootOptions) resolve() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(o.flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	dataDir := v.GetString("datadir")
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfgPath := v.GetString("config")
	if cfgPath == "" {
		cfgPath = config.ConfigPath(dataDir)
	}
	fileCfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) || v.IsSet("config") {
			return err
		}
	}
	if !v.IsSet("config") {
		// The file was found through the data directory, which wins over
		// any datadir key inside it.
		fileCfg.DataDir = dataDir
	}

	v.SetDefault("datadir", fileCfg.DataDir)
	v.SetDefault("dbfile", fileCfg.DBFile)
	v.SetDefault("denom", fileCfg.Denom)
	v.SetDefault("log-level", fileCfg.LogLevel)
	v.SetDefault("log-file", fileCfg.LogFile)

	cfg := config.Config{
		DataDir:  v.GetString("datadir"),
		DBFile:   v.GetString("dbfile"),
		Denom:    v.GetString("denom"),
		LogLevel: v.GetString("log-level"),
		LogFile:  v.GetString("log-file"),
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "configuration", Err: err}
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}

	o.Config = cfg
	o.Log = log
	o.Now = v.GetUint64("now")
	o.From = v.GetString("from")

	log.Debug("configuration resolved",
		zap.String("config", cfgPath),
		zap.String("db", cfg.DBPath()),
		zap.Uint64("now", o.Now))
	return nil
}

// caller parses --from. Commands that move coins or resolve locks need it.
func (o *RootOptions) caller() (lock.Address, error) {
	if o.From == "" {
		return lock.Address{}, usageError("--from is required")
	}
	return lock.ParseAddress(o.From)
}
