package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/primality"
)

func newIsPrimeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "isprime <n>",
		Short: "Test a 64-bit integer for primality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.ErrInvalidRequest(fmt.Sprintf("%q is not a decimal uint64", args[0]))
			}
			verdict := "composite"
			if primality.MillerRabin(n) {
				verdict = "prime"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d is %s\n", n, verdict)
			return nil
		},
	}
}
