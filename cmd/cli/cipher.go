package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

func newEncryptCommand(opts *options) *cobra.Command {
	return newCipherCommand(opts, "encrypt", "e", "Compute m^e mod n")
}

func newDecryptCommand(opts *options) *cobra.Command {
	return newCipherCommand(opts, "decrypt", "d", "Compute c^d mod n")
}

// newCipherCommand builds encrypt and decrypt; they differ only in which
// exponent flag they read and which stored half of the key they use.
func newCipherCommand(opts *options, name, exponentFlag, short string) *cobra.Command {
	var (
		exponent uint64
		modulus  uint64
		keyID    string
	)

	cmd := &cobra.Command{
		Use:   name + " <block>",
		Short: short,
		Long: fmt.Sprintf(`%s transforms a single block, given as a decimal integer not larger
than n. Supply either --%s and --n, or --key with the ID of a stored key.`, name, exponentFlag),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return errors.ErrInvalidRequest(fmt.Sprintf("block %q is not a decimal uint64", args[0]))
			}

			var out uint64
			if keyID != "" {
				out, err = storedCipher(cmd.Context(), opts, name, keyID, block)
			} else {
				out, err = rawCipher(cmd, exponentFlag, exponent, modulus, block)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&exponent, exponentFlag, 0, "exponent")
	cmd.Flags().Uint64Var(&modulus, "n", 0, "modulus")
	cmd.Flags().StringVar(&keyID, "key", "", "ID of a stored key")
	cmd.MarkFlagsMutuallyExclusive("key", exponentFlag)
	cmd.MarkFlagsMutuallyExclusive("key", "n")
	return cmd
}

func rawCipher(cmd *cobra.Command, exponentFlag string, exponent, modulus, block uint64) (uint64, error) {
	if !cmd.Flags().Changed(exponentFlag) || !cmd.Flags().Changed("n") {
		return 0, errors.ErrInvalidRequest(fmt.Sprintf("either --key or both --%s and --n are required", exponentFlag))
	}
	if modulus == 0 {
		return 0, errors.ErrInvalidRequest("--n must be positive")
	}
	if err := mrsa.Cipher(&block, exponent, modulus); err != nil {
		return 0, err
	}
	return block, nil
}

func storedCipher(ctx context.Context, opts *options, name, keyID string, block uint64) (uint64, error) {
	svc, closeStore, err := opts.openService(ctx)
	if err != nil {
		return 0, err
	}
	defer closeStore()

	if name == "encrypt" {
		return svc.Encrypt(ctx, keyID, block)
	}
	return svc.Decrypt(ctx, keyID, block)
}
