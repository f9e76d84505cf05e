// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitfsorg/libhtlc-go/ledger"
)

// newLogger builds a production JSON logger at level, writing to file or to
// stderr when file is empty.
func newLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	if file != "" {
		zc.OutputPaths = []string{file}
	}
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// session is an open ledger for the duration of one command.
type session struct {
	*ledger.Ledger
	backend *ledger.BoltBackend
}

func (o *RootOptions) open() (*session, error) {
	backend, err := ledger.OpenBoltBackend(o.Config.DBPath())
	if err != nil {
		return nil, err
	}

	var clock ledger.Clock = ledger.NewSystemClock()
	if o.Now != 0 {
		clock = ledger.NewManualClock(o.Now)
	}

	l := ledger.New(backend, clock, ledger.WithLogger(o.Log.Named("ledger")))
	return &session{Ledger: l, backend: backend}, nil
}

func (s *session) Close() error { return s.backend.Close() }
