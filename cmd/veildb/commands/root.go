package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veildb/internal/app"
	"veildb/internal/domain"
)

var (
	root       string
	passphrase string
	pid        string

	wire *app.Wire
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:           "veildb",
		Short:         "Encrypted single-node record store",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = os.Getenv("VEILDB_ROOT")
			}
			if root == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				root = filepath.Join(dir, ".veildb")
			}
			if passphrase == "" {
				passphrase = os.Getenv("VEILDB_PASSPHRASE")
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p or VEILDB_PASSPHRASE)")
			}

			w, err := app.NewWire(app.Config{
				Root:       root,
				Passphrase: passphrase,
				ProcessID:  domain.ProcessID(pid),
			})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&root, "root", "", "storage root (default ~/.veildb, env VEILDB_ROOT)")
	rootCmd.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "engine passphrase (env VEILDB_PASSPHRASE)")
	rootCmd.PersistentFlags().StringVar(&pid, "pid", "", "connection identifier (default OS pid)")

	rootCmd.AddCommand(createCmd(), dropCmd(), listCmd(), insertCmd(), searchCmd(), updateCmd(), deleteCmd())
	return rootCmd.Execute()
}
