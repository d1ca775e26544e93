// Package cli implements the mrsa-admin command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/turtacn/mrsa/internal/application"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/internal/domain/service"
	"github.com/turtacn/mrsa/internal/infrastructure/audit"
	"github.com/turtacn/mrsa/internal/infrastructure/monitoring"
	"github.com/turtacn/mrsa/internal/infrastructure/persistence/sqlite"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

type options struct {
	configPath string
	dsn        string
}

// NewRootCommand builds the mrsa-admin command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "mrsa-admin",
		Short: "Generate and use 64-bit mini-RSA keys",
		Long: `mrsa-admin generates mini-RSA key pairs, applies the raw RSA block
transform with explicit exponents or stored keys, and manages the key store.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the config file (default ./mrsa.yaml or /etc/mrsa/mrsa.yaml)")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "key store path, overrides store.dsn")

	root.AddCommand(
		newKeygenCommand(opts),
		newEncryptCommand(opts),
		newDecryptCommand(opts),
		newIsPrimeCommand(),
		newKeysCommand(opts),
	)
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService wires the key store behind the store-backed commands. The
// returned func closes the store.
func (o *options) openService(ctx context.Context) (service.KeyManagementService, func(), error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dsn != "" {
		cfg.Store.DSN = o.dsn
	}

	log, _ := monitoring.NewZapLogger(&cfg.Log)
	db, err := sqlite.Open(ctx, cfg.Store.DSN, log)
	if err != nil {
		return nil, nil, err
	}

	gen := mrsa.NewGenerator(nil, mrsa.WithLogger(log))
	svc := application.NewKeyManagementService(gen, sqlite.NewKeyRepository(db), nil, audit.NewGormAuditService(db), cfg, log)
	return svc, func() { _ = sqlite.Close(db) }, nil
}
