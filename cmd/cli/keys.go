package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newKeysCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored keys",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			infos, err := svc.ListKeys(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tSTATUS\tE\tN\tCREATED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					info.ID, info.Label, info.Status, info.E, info.N, info.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.RevokeKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
			return nil
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Show the audit trail of a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			events, err := svc.KeyEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tEVENT\tMESSAGE")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.CreatedAt.Format(time.RFC3339), e.EventType, e.Message)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(listCmd, revokeCmd, eventsCmd)
	return cmd
}
