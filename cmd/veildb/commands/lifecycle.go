package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <database>",
		Short: "Create a database with a fresh encrypted secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Engine.CreateDatabase(args[0]); err != nil {
				return err
			}
			color.Green("Database %q created.", args[0])
			return nil
		},
	}
}

func dropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <database>",
		Short: "Delete a database and all its tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Engine.DeleteDatabase(args[0]); err != nil {
				return err
			}
			color.Yellow("Database %q deleted.", args[0])
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := wire.Engine.ListDatabases()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
