// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libhtlc-go/ledger"
)

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		from  uint64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the event log",
		Long: `Print committed lock_created, lock_redeemed and lock_refunded events in
sequence order, starting at --from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := rootOpts.open()
			if err != nil {
				return failure(out, "events", err)
			}
			defer s.Close()

			evs, err := s.Events(from, limit)
			if err != nil {
				return failure(out, "events", err)
			}
			if evs == nil {
				evs = []ledger.EventRecord{}
			}
			return success(out, evs)
		},
	}

	cmd.Flags().Uint64Var(&from, "from-seq", 1, "first sequence number")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum events to print (0 for all)")

	return cmd
}
