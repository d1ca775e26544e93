package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

func newKeygenCommand(opts *options) *cobra.Command {
	var (
		count   int
		store   bool
		label   string
		p, q, e uint64
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate mini-RSA key pairs",
		Long: `keygen prints e, d and n for each generated key. With --store the keys are
saved to the key store and only their IDs and public parts are printed.
With --p and --q the key is derived from those primes instead; --e defaults
to 65537.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.ErrInvalidRequest("--count must be at least 1")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("p") {
				k, err := mrsa.NewKeyFromPrimes(p, q, e)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "e=%d d=%d n=%d\n", k.E, k.D, k.N)
				return nil
			}

			if !store {
				gen := mrsa.NewGenerator(nil)
				for range count {
					k, err := gen.GenerateKey(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "e=%d d=%d n=%d\n", k.E, k.D, k.N)
				}
				return nil
			}

			svc, closeStore, err := opts.openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			infos, err := svc.GenerateKeys(ctx, label, count)
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(out, "id=%s e=%d n=%d\n", info.ID, info.E, info.N)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "number of keys to generate")
	cmd.Flags().BoolVar(&store, "store", false, "save the keys to the key store")
	cmd.Flags().StringVar(&label, "label", "", "label for stored keys")
	cmd.Flags().Uint64Var(&p, "p", 0, "first prime factor")
	cmd.Flags().Uint64Var(&q, "q", 0, "second prime factor")
	cmd.Flags().Uint64Var(&e, "e", 0, "public exponent for --p/--q (0 selects 65537)")
	cmd.MarkFlagsRequiredTogether("p", "q")
	cmd.MarkFlagsMutuallyExclusive("p", "store")
	cmd.MarkFlagsMutuallyExclusive("p", "count")
	return cmd
}
