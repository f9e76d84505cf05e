// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/config"
	"github.com/bitfsorg/libhtlc-go/ledger"
	"github.com/bitfsorg/libhtlc-go/lock"
)

const (
	alice = "0xa1"
	bob   = "0xb0"
	carol = "0xc0"
	eve   = "0xee"

	createdAt = uint64(1_000_000)
	hourMs    = uint64(3_600_000)
)

var (
	secret    = bytes.Repeat([]byte{0x42}, 32)
	secretHex = hex.EncodeToString(secret)
	digestHex = lock.Hash(secret).String()
)

type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
}

// run executes one htlc invocation against dataDir and decodes its output.
func run(t *testing.T, dataDir string, args ...string) (response, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--datadir", dataDir, "--log-level", "error"}, args...))

	err := cmd.Execute()

	var resp response
	if buf.Len() > 0 {
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), buf.String())
	}
	return resp, err
}

func mustRun(t *testing.T, dataDir string, args ...string) response {
	t.Helper()
	resp, err := run(t, dataDir, args...)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
	return resp
}

func decode[T any](t *testing.T, resp response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

// createLock funds alice and locks amount for bob with carol as refund
// address, created at createdAt with a one hour duration.
func createLock(t *testing.T, dir string, amount string) *ledger.Lock {
	t.Helper()
	mustRun(t, dir, "mint", alice, amount)
	resp := mustRun(t, dir, "--now", "1000000", "--from", alice, "create",
		"--hash", digestHex, "--target", bob, "--refund", carol,
		"--amount", amount, "--duration", "3600000")
	return decode[*ledger.Lock](t, resp)
}

func balanceOf(t *testing.T, dir, owner string) uint64 {
	t.Helper()
	return decode[Balance](t, mustRun(t, dir, "balance", owner)).Coin.Amount
}

// ---------------------------------------------------------------------------
// Lock lifecycle
// ---------------------------------------------------------------------------

func TestCreateCommand(t *testing.T) {
	dir := t.TempDir()
	rec := createLock(t, dir, "1000utok")

	assert.Equal(t, createdAt, rec.CreatedAt)
	assert.Equal(t, createdAt+hourMs, rec.Deadline)
	assert.Equal(t, coin.Coin{Denom: "utok", Amount: 1000}, rec.Asset)
	assert.Equal(t, uint64(32), rec.SecretLength)
	assert.Zero(t, balanceOf(t, dir, alice))

	shown := decode[*ledger.Lock](t, mustRun(t, dir, "show", rec.ID.String()))
	assert.Equal(t, rec, shown)
}

func TestCreateCommand_DefaultPresets(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "mint", alice, "2utok")

	for preset, want := range map[string]uint64{
		"24h": lock.DefaultDuration24h,
		"48h": lock.DefaultDuration48h,
	} {
		resp := mustRun(t, dir, "--now", "1000000", "--from", alice, "create",
			"--hash", digestHex, "--target", bob, "--amount", "1", "--default", preset)
		rec := decode[*ledger.Lock](t, resp)
		assert.Equal(t, createdAt+want, rec.Deadline, preset)
		assert.Equal(t, rec.Initiator, rec.RefundAddress, "refund defaults to --from")
	}
}

func TestCreateCommand_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--from", alice, "create", "--hash", digestHex, "--target", bob, "--amount", "1utok"}

	tests := []struct {
		name  string
		extra []string
	}{
		{"no duration", nil},
		{"both durations", []string{"--duration", "5", "--default", "24h"}},
		{"bad preset", []string{"--default", "12h"}},
		{"bad hash", []string{"--duration", "5", "--hash", "0x1234"}},
		{"bad amount", []string{"--duration", "5", "--amount", "utok"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := run(t, dir, append(append([]string{}, base...), tc.extra...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "invalid_argument", resp.Error.Code)
		})
	}

	_, err := run(t, dir, "create", "--hash", digestHex, "--target", bob, "--amount", "1", "--duration", "5")
	assert.Equal(t, ExitCommandError, GetExitCode(err), "missing --from")
}

func TestCreateCommand_InsufficientFunds(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "mint", alice, "5utok")

	resp, err := run(t, dir, "--from", alice, "create",
		"--hash", digestHex, "--target", bob, "--amount", "6utok", "--duration", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "insufficient_funds", resp.Error.Code)
	assert.Equal(t, uint64(5), balanceOf(t, dir, alice))
}

func TestRedeemCommand(t *testing.T) {
	dir := t.TempDir()
	rec := createLock(t, dir, "1000utok")
	id := rec.ID.String()

	resp, err := run(t, dir, "--from", bob, "redeem", id, secretHex[:62])
	assert.Equal(t, ExitAbortBase+int(lock.CodeSecretLengthWrong), GetExitCode(err))
	assert.Equal(t, "secret_length_wrong", resp.Error.Code)
	require.NotNil(t, resp.Error.AbortCode)
	assert.Equal(t, lock.CodeSecretLengthWrong, *resp.Error.AbortCode)

	wrong := strings.Repeat("43", 32)
	resp, err = run(t, dir, "--from", bob, "redeem", id, wrong)
	assert.Equal(t, ExitAbortBase+int(lock.CodeSecretPreimageWrong), GetExitCode(err))
	assert.Equal(t, "secret_preimage_wrong", resp.Error.Code)

	// Anyone holding the secret may redeem; the target is paid.
	resp = mustRun(t, dir, "--from", eve, "redeem", id, "0x"+secretHex)
	rel := decode[Release](t, resp)
	assert.Equal(t, rec.ID, rel.LockID)
	assert.Equal(t, rec.TargetAddress, rel.To)
	assert.Equal(t, uint64(1000), rel.Asset.Amount)
	assert.Equal(t, uint64(1000), balanceOf(t, dir, bob))

	resp, err = run(t, dir, "show", id)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "lock_not_found", resp.Error.Code)
}

func TestRefundCommand(t *testing.T) {
	dir := t.TempDir()
	rec := createLock(t, dir, "700utok")
	id := rec.ID.String()

	resp, err := run(t, dir, "--now", "4600000", "--from", carol, "refund", id)
	assert.Equal(t, ExitAbortBase+int(lock.CodeRefundEarly), GetExitCode(err), "deadline itself is too early")
	assert.Equal(t, "refund_early", resp.Error.Code)

	resp, err = run(t, dir, "--now", "4600001", "--from", eve, "refund", id)
	assert.Equal(t, ExitAbortBase+int(lock.CodeRefund3rdParty), GetExitCode(err))
	assert.Equal(t, "refund_3rd_party", resp.Error.Code)

	resp = mustRun(t, dir, "--now", "4600001", "--from", bob, "refund", id)
	rel := decode[Release](t, resp)
	assert.Equal(t, rec.RefundAddress, rel.To)
	assert.Equal(t, uint64(700), balanceOf(t, dir, carol))
	assert.Zero(t, balanceOf(t, dir, bob))

	_, err = run(t, dir, "--now", "4600001", "--from", carol, "refund", id)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "mint", alice, "3utok")
	for _, d := range []string{"300", "100", "200"} {
		mustRun(t, dir, "--now", "1000000", "--from", alice, "create",
			"--hash", digestHex, "--target", bob, "--amount", "1", "--duration", d)
	}

	list := decode[[]LockSummary](t, mustRun(t, dir, "--now", "1000150", "list"))
	require.Len(t, list, 3)
	assert.Equal(t, createdAt+100, list[0].Lock.Deadline)
	assert.True(t, list[0].Expired)
	assert.False(t, list[1].Expired)
	assert.Equal(t, createdAt+300, list[2].Lock.Deadline)
}

func TestEventsCommand(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, decode[[]ledger.EventRecord](t, mustRun(t, dir, "events")))

	rec := createLock(t, dir, "9utok")
	mustRun(t, dir, "--from", bob, "redeem", rec.ID.String(), secretHex)

	evs := decode[[]ledger.EventRecord](t, mustRun(t, dir, "events"))
	require.Len(t, evs, 2)
	assert.Equal(t, lock.KindCreated, evs[0].Kind)
	assert.Equal(t, lock.KindRedeemed, evs[1].Kind)

	ev, err := evs[1].Decode()
	require.NoError(t, err)
	redeemed := ev.(*lock.Redeemed)
	assert.Equal(t, secret, []byte(redeemed.Secret))

	evs = decode[[]ledger.EventRecord](t, mustRun(t, dir, "events", "--from-seq", "2"))
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(2), evs[0].Seq)

	evs = decode[[]ledger.EventRecord](t, mustRun(t, dir, "events", "--limit", "1"))
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(1), evs[0].Seq)
}

func TestHashCommand(t *testing.T) {
	resp := mustRun(t, t.TempDir(), "hash", secretHex)
	out := decode[struct {
		Hash   lock.Digest `json:"hash"`
		Length int         `json:"secret_length"`
	}](t, resp)
	assert.Equal(t, lock.Hash(secret), out.Hash)
	assert.Equal(t, 32, out.Length)

	_, err := run(t, t.TempDir(), "hash", "zz")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestMintAndBalance(t *testing.T) {
	dir := t.TempDir()
	b := decode[Balance](t, mustRun(t, dir, "mint", alice, "5"))
	assert.Equal(t, coin.Coin{Denom: "utok", Amount: 5}, b.Coin)

	mustRun(t, dir, "mint", alice, "7uatom")
	b = decode[Balance](t, mustRun(t, dir, "balance", alice, "uatom"))
	assert.Equal(t, uint64(7), b.Coin.Amount)
	assert.Equal(t, uint64(5), balanceOf(t, dir, alice))

	_, err := run(t, dir, "balance", alice, "X")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// ---------------------------------------------------------------------------
// Configuration layering
// ---------------------------------------------------------------------------

func TestConfigLayering(t *testing.T) {
	dir := t.TempDir()

	resp := mustRun(t, dir, "init")
	written := decode[struct {
		Path string `json:"path"`
	}](t, resp)
	assert.Equal(t, config.ConfigPath(dir), written.Path)

	_, err := run(t, dir, "init")
	assert.Equal(t, ExitCommandError, GetExitCode(err), "init refuses to overwrite")

	cfg, err := config.LoadConfig(written.Path)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	cfg.Denom = "ufile"
	require.NoError(t, config.SaveConfig(written.Path, cfg))

	b := decode[Balance](t, mustRun(t, dir, "mint", alice, "1"))
	assert.Equal(t, "ufile", b.Coin.Denom, "config file")

	t.Setenv("HTLC_DENOM", "uenv")
	b = decode[Balance](t, mustRun(t, dir, "mint", alice, "1"))
	assert.Equal(t, "uenv", b.Coin.Denom, "environment over file")

	b = decode[Balance](t, mustRun(t, dir, "--denom", "uflag", "mint", alice, "1"))
	assert.Equal(t, "uflag", b.Coin.Denom, "flag over environment")
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "custom.conf")

	_, err := run(t, dir, "--config", cfgPath, "balance", alice)
	assert.Error(t, err, "an explicit config file must exist")

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.DBFile = "other.db"
	require.NoError(t, config.SaveConfig(cfgPath, cfg))

	mustRun(t, dir, "--config", cfgPath, "mint", alice, "1")
	_, err = os.Stat(filepath.Join(dir, "other.db"))
	assert.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, t.TempDir(), "--log-level", "chatty", "balance", alice)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, 13, GetExitCode(&ExitError{Code: 13, Message: "refund"}))
}
