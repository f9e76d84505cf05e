// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// Balance is the output of mint and balance.
type Balance struct {
	Owner lock.Address `json:"owner"`
	Coin  coin.Coin    `json:"coin"`
}

// NewMintCommand creates the mint command.
func NewMintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mint <address> <amount>",
		Short: "Credit coins to an account",
		Long: `Mint credits coins to an account so it can fund locks. It stands in for
whatever brings assets onto the ledger and emits no lock event.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			owner, err := lock.ParseAddress(args[0])
			if err != nil {
				return failure(out, "mint", err)
			}
			amount, err := parseAmount(args[1], rootOpts.Config.Denom)
			if err != nil {
				return failure(out, "mint", err)
			}

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "mint", err)
			}
			defer s.Close()

			if err := s.Mint(owner, amount); err != nil {
				return failure(out, "mint", err)
			}
			bal, err := s.Balance(owner, amount.Denom)
			if err != nil {
				return failure(out, "mint", err)
			}
			return success(out, Balance{Owner: owner, Coin: bal})
		},
	}
}

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address> [denom]",
		Short: "Print an account balance",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			owner, err := lock.ParseAddress(args[0])
			if err != nil {
				return failure(out, "balance", err)
			}
			denom := rootOpts.Config.Denom
			if len(args) == 2 {
				denom = args[1]
			}
			if err := coin.ValidateDenom(denom); err != nil {
				return failure(out, "balance", err)
			}

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "balance", err)
			}
			defer s.Close()

			bal, err := s.Balance(owner, denom)
			if err != nil {
				return failure(out, "balance", err)
			}
			return success(out, Balance{Owner: owner, Coin: bal})
		},
	}
}
