// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the htlc node configuration: where the
// ledger database lives, the default coin denomination and logging options.
//
// The file format is one "key = value" pair per line. Blank lines and lines
// starting with '#' are ignored, as are unknown keys.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Recognised keys.
const (
	keyDataDir  = "datadir"
	keyDBFile   = "dbfile"
	keyDenom    = "denom"
	keyLogLevel = "loglevel"
	keyLogFile  = "logfile"
)

// Config holds node settings.
type Config struct {
	DataDir  string `json:"datadir"`  // directory holding the database and config file
	DBFile   string `json:"dbfile"`   // database file name, relative to DataDir
	Denom    string `json:"denom"`    // denomination used when an amount has none
	LogLevel string `json:"loglevel"` // debug, info, warn or error
	LogFile  string `json:"logfile"`  // empty means stderr
}

// DefaultDataDir returns ~/.htlc, or .htlc in the working directory when the
// home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".htlc"
	}
	return filepath.Join(home, ".htlc")
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		DBFile:   "htlc.db",
		Denom:    "utok",
		LogLevel: "info",
	}
}

// DBPath returns the database location.
func (c Config) DBPath() string {
	if filepath.IsAbs(c.DBFile) {
		return c.DBFile
	}
	return filepath.Join(c.DataDir, c.DBFile)
}

// LoadConfig reads path on top of DefaultConfig. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s:%d", err, path, lineNo)
		}
		switch key {
		case keyDataDir:
			cfg.DataDir = value
		case keyDBFile:
			cfg.DBFile = value
		case keyDenom:
			cfg.Denom = value
		case keyLogLevel:
			cfg.LogLevel = value
		case keyLogFile:
			cfg.LogFile = value
		}
	}
	if err := sc.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits a line on its first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# HTLC Configuration\n\n")
	fmt.Fprintf(&b, "%s = %s\n", keyDataDir, cfg.DataDir)
	fmt.Fprintf(&b, "%s = %s\n", keyDBFile, cfg.DBFile)
	fmt.Fprintf(&b, "%s = %s\n", keyDenom, cfg.Denom)
	fmt.Fprintf(&b, "%s = %s\n", keyLogLevel, cfg.LogLevel)
	fmt.Fprintf(&b, "%s = %s\n", keyLogFile, cfg.LogFile)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
