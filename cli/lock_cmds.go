// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/ledger"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// Release is the output of a successful redeem or refund.
type Release struct {
	LockID lock.ID      `json:"lock_id"`
	To     lock.Address `json:"to"`
	Asset  coin.Coin    `json:"asset"`
}

// parseAmount accepts "250utok" or a bare "250" in the configured denom.
func parseAmount(s, denom string) (coin.Coin, error) {
	if s != "" && strings.Trim(s, "0123456789") == "" {
		s += denom
	}
	return coin.Parse(s)
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		duration  uint64
		preset    string
		hash      string
		target    string
		refund    string
		amount    string
		secretLen uint64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Lock coins until a secret is revealed or a deadline passes",
		Long: `Debit --amount from the --from account and hold it in a new lock.

The lock can be redeemed to --target with a secret of --secret-len bytes
whose SHA-256 digest is --hash, or refunded to --refund (default --from)
after the deadline, which is the creation time plus the duration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			caller, err := rootOpts.caller()
			if err != nil {
				return failure(out, "create", err)
			}
			req, err := buildCreateRequest(rootOpts, caller, hash, target, refund, amount, secretLen)
			if err != nil {
				return failure(out, "create", err)
			}

			durationSet := cmd.Flags().Changed("duration")
			if durationSet == (preset != "") {
				return failure(out, "create", usageError("exactly one of --duration or --default is required"))
			}

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "create", err)
			}
			defer s.Close()

			var id lock.ID
			switch preset {
			case "":
				req.Duration = duration
				id, err = s.CreateLock(caller, req)
			case "24h":
				id, err = s.CreateLockDefault24h(caller, req)
			case "48h":
				id, err = s.CreateLockDefault48h(caller, req)
			default:
				err = usageError("--default must be 24h or 48h, got %q", preset)
			}
			if err != nil {
				return failure(out, "create", err)
			}

			rec, err := s.Lock(id)
			if err != nil {
				return failure(out, "create", err)
			}
			return success(out, rec)
		},
	}

	cmd.Flags().Uint64Var(&duration, "duration", 0, "lock duration in ms")
	cmd.Flags().StringVar(&preset, "default", "", "preset duration: 24h or 48h")
	cmd.Flags().StringVar(&hash, "hash", "", "SHA-256 digest of the secret (hex)")
	cmd.Flags().StringVar(&target, "target", "", "address paid on redeem")
	cmd.Flags().StringVar(&refund, "refund", "", "address paid on refund (default --from)")
	cmd.Flags().StringVar(&amount, "amount", "", "coins to lock, e.g. 250utok")
	cmd.Flags().Uint64Var(&secretLen, "secret-len", 32, "required secret length in bytes")

	return cmd
}

func buildCreateRequest(rootOpts *RootOptions, caller lock.Address, hash, target, refund, amount string, secretLen uint64) (ledger.CreateRequest, error) {
	var req ledger.CreateRequest
	if hash == "" || target == "" || amount == "" {
		return req, usageError("--hash, --target and --amount are required")
	}

	var err error
	if req.Hashed, err = lock.ParseDigest(hash); err != nil {
		return req, err
	}
	if req.TargetAddress, err = lock.ParseAddress(target); err != nil {
		return req, err
	}
	req.RefundAddress = caller
	if refund != "" {
		if req.RefundAddress, err = lock.ParseAddress(refund); err != nil {
			return req, err
		}
	}
	if req.Amount, err = parseAmount(amount, rootOpts.Config.Denom); err != nil {
		return req, err
	}
	req.SecretLength = secretLen
	return req, nil
}

// NewRedeemCommand creates the redeem command.
func NewRedeemCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <lock-id> <secret-hex>",
		Short: "Pay a lock to its target by revealing the secret",
		Long: `Redeem releases the lock to its target address if the secret has the
required length and hashes to the lock's digest. Anyone may redeem, at any
time before the lock is refunded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			caller, err := rootOpts.caller()
			if err != nil {
				return failure(out, "redeem", err)
			}
			id, err := lock.ParseID(args[0])
			if err != nil {
				return failure(out, "redeem", err)
			}
			var secret lock.HexBytes
			if err := secret.UnmarshalText([]byte(args[1])); err != nil {
				return failure(out, "redeem", err)
			}

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "redeem", err)
			}
			defer s.Close()

			rec, err := s.Lock(id)
			if err != nil {
				return failure(out, "redeem", err)
			}
			if err := s.Redeem(caller, id, secret); err != nil {
				return failure(out, "redeem", err)
			}
			return success(out, Release{LockID: id, To: rec.TargetAddress, Asset: rec.Asset})
		},
	}
}

// NewRefundCommand creates the refund command.
func NewRefundCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refund <lock-id>",
		Short: "Return an expired lock to its refund address",
		Long: `Refund releases the lock to its refund address once the oracle time is
past the deadline. Only the initiator, the refund address or the target
address may refund.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			caller, err := rootOpts.caller()
			if err != nil {
				return failure(out, "refund", err)
			}
			id, err := lock.ParseID(args[0])
			if err != nil {
				return failure(out, "refund", err)
			}

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "refund", err)
			}
			defer s.Close()

			rec, err := s.Lock(id)
			if err != nil {
				return failure(out, "refund", err)
			}
			if err := s.Refund(caller, id); err != nil {
				return failure(out, "refund", err)
			}
			return success(out, Release{LockID: id, To: rec.RefundAddress, Asset: rec.Asset})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <lock-id>",
		Short: "Print a live lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			id, err := lock.ParseID(args[0])
			if err != nil {
				return failure(out, "show", err)
			}
			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "show", err)
			}
			defer s.Close()

			rec, err := s.Lock(id)
			if err != nil {
				return failure(out, "show", err)
			}
			return success(out, rec)
		},
	}
}

// LockSummary is a list entry.
type LockSummary struct {
	Lock    *ledger.Lock `json:"lock"`
	Expired bool         `json:"expired"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live locks by deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "list", err)
			}
			defer s.Close()

			recs, err := s.Locks()
			if err != nil {
				return failure(out, "list", err)
			}
			now := s.Now()
			list := make([]LockSummary, 0, len(recs))
			for _, rec := range recs {
				list = append(list, LockSummary{Lock: rec, Expired: rec.Expired(now)})
			}
			return success(out, list)
		},
	}
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash <secret-hex>",
		Short: "Print the SHA-256 digest and length of a secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var secret lock.HexBytes
			if err := secret.UnmarshalText([]byte(args[0])); err != nil {
				return failure(out, "hash", err)
			}
			return success(out, struct {
				Hash   lock.Digest `json:"hash"`
				Length int         `json:"secret_length"`
			}{lock.Hash(secret), len(secret)})
		},
	}
}
