// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/ledger"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// Exit codes. A lock operation that aborts exits with ExitAbortBase plus its
// abort code, so 10 means a wrong secret length and 13 an early refund.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
	ExitAbortBase    = 10
)

// ExitError carries the process exit status for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

func usageError(format string, args ...interface{}) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: fmt.Sprintf(format, args...)}
}

// CLIResponse is the JSON envelope every command writes to stdout.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError describes a failed command.
type CLIError struct {
	Code      string  `json:"code"`
	AbortCode *uint64 `json:"abort_code,omitempty"`
	Message   string  `json:"message"`
}

var abortNames = map[uint64]string{
	lock.CodeSecretLengthWrong:   "secret_length_wrong",
	lock.CodeSecretPreimageWrong: "secret_preimage_wrong",
	lock.CodeRefund3rdParty:      "refund_3rd_party",
	lock.CodeRefundEarly:         "refund_early",
}

func writeJSON(w io.Writer, resp CLIResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func success(w io.Writer, data interface{}) error {
	return writeJSON(w, CLIResponse{Status: "ok", Data: data})
}

// failure reports err on w and returns the ExitError the command should
// return.
func failure(w io.Writer, op string, err error) error {
	cliErr := &CLIError{Message: err.Error()}
	exit := &ExitError{Code: ExitFailure, Message: op, Err: err}

	var usage *ExitError
	switch code, isAbort := lock.Code(err); {
	case isAbort:
		cliErr.Code = abortNames[code]
		cliErr.AbortCode = &code
		exit.Code = ExitAbortBase + int(code)
	case errors.As(err, &usage):
		cliErr.Code = "invalid_argument"
		exit.Code = usage.Code
	case errors.Is(err, ledger.ErrLockNotFound):
		cliErr.Code = "lock_not_found"
	case errors.Is(err, coin.ErrInsufficientFunds):
		cliErr.Code = "insufficient_funds"
	case errors.Is(err, lock.ErrInvalidHex),
		errors.Is(err, coin.ErrInvalidCoin),
		errors.Is(err, coin.ErrInvalidDenom):
		cliErr.Code = "invalid_argument"
		exit.Code = ExitCommandError
	default:
		cliErr.Code = "failed"
	}

	if werr := writeJSON(w, CLIResponse{Status: "error", Error: cliErr}); werr != nil {
		return werr
	}
	return exit
}
