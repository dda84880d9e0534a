package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Schema inspection via the meta API",
	}

	cmd.AddCommand(
		newTablesListCommand(cli),
		newTablesInfoCommand(cli),
		newTablesColumnsCommand(cli),
	)
	return cmd
}

func newTablesListCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list BASE_ID",
		Short: "List the tables of a base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := cli.client.Meta().ListTables(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, table := range tables {
				fmt.Printf("%s\t%s\n", table.ID, table.Title)
			}
			return nil
		},
	}
}

func newTablesInfoCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info TABLE_ID",
		Short: "Print the metadata of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := cli.client.Meta().GetTableInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(info)
		},
	}
}

func newTablesColumnsCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "columns TABLE_ID",
		Short: "List the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, err := cli.client.Meta().ListColumns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, col := range columns {
				fmt.Printf("%s\t%s\t%s\n", col.ID, col.Title, col.UIDT)
			}
			return nil
		},
	}
}
