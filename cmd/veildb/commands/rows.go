package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veildb/internal/domain"
	"veildb/internal/engine"
)

// withConnection connects to the database, runs fn while holding the
// connection, and always disconnects.
func withConnection(cmd *cobra.Command, database string, fn func(conn *engine.Connection) error) error {
	conn, err := wire.Engine.Connect(cmd.Context(), database, wire.PID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect() }()
	return fn(conn)
}

func parseObject(arg string, what string) (map[string]any, error) {
	m := map[string]any{}
	if arg == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(arg), &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", what, err)
	}
	return m, nil
}

func printRows(rows []domain.Row) error {
	enc := json.NewEncoder(os.Stdout)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func insertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <database> <table> <json-row>",
		Short: "Insert a row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseObject(args[2], "row")
			if err != nil {
				return err
			}
			return withConnection(cmd, args[0], func(conn *engine.Connection) error {
				if err := conn.Insert(args[1], domain.Row(row)); err != nil {
					return err
				}
				color.Green("1 row inserted into %s.", args[1])
				return nil
			})
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <database> <table> [json-conditions]",
		Short: "Search rows by exact-equality conditions",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 3 {
				raw = args[2]
			}
			conds, err := parseObject(raw, "conditions")
			if err != nil {
				return err
			}
			return withConnection(cmd, args[0], func(conn *engine.Connection) error {
				rows, err := conn.Search(args[1], domain.Conditions(conds))
				if err != nil {
					return err
				}
				return printRows(rows)
			})
		},
	}
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <database> <table> <json-conditions> <json-updates>",
		Short: "Update rows matching conditions",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := parseObject(args[2], "conditions")
			if err != nil {
				return err
			}
			updates, err := parseObject(args[3], "updates")
			if err != nil {
				return err
			}
			return withConnection(cmd, args[0], func(conn *engine.Connection) error {
				rows, err := conn.Update(args[1], domain.Conditions(conds), domain.Updates(updates))
				if err != nil {
					return err
				}
				color.Green("%d row(s) updated.", len(rows))
				return printRows(rows)
			})
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <database> <table> <json-conditions>",
		Short: "Delete rows matching conditions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conds, err := parseObject(args[2], "conditions")
			if err != nil {
				return err
			}
			return withConnection(cmd, args[0], func(conn *engine.Connection) error {
				rows, err := conn.Delete(args[1], domain.Conditions(conds))
				if err != nil {
					return err
				}
				color.Yellow("%d row(s) deleted.", len(rows))
				return printRows(rows)
			})
		},
	}
}
