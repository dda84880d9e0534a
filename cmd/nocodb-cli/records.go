package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/nocodb"
)

func newRecordsCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Record CRUD operations",
	}

	cmd.AddCommand(
		newRecordsListCommand(cli),
		newRecordsGetCommand(cli),
		newRecordsInsertCommand(cli),
		newRecordsUpdateCommand(cli),
		newRecordsDeleteCommand(cli),
		newRecordsCountCommand(cli),
	)
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRecordsListCommand(cli *cliContext) *cobra.Command {
	var (
		sort   string
		where  string
		fields []string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list TABLE_ID",
		Short: "List records of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := cli.client.GetRecords(cmd.Context(), args[0], nocodb.QueryParams{
				Sort:   sort,
				Where:  where,
				Fields: fields,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			return printJSON(records)
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "", "sort criteria, e.g. -CreatedAt")
	cmd.Flags().StringVar(&where, "where", "", "filter expression, e.g. (Age,gt,30)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "columns to return")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records to return")
	return cmd
}

func newRecordsGetCommand(cli *cliContext) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "get TABLE_ID RECORD_ID",
		Short: "Get a single record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := cli.client.GetRecord(cmd.Context(), args[0], args[1], fields...)
			if err != nil {
				return err
			}
			return printJSON(record)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "columns to return")
	return cmd
}

func newRecordsInsertCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "insert TABLE_ID JSON",
		Short: "Insert a record from a JSON object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var record nocodb.Record
			if err := json.Unmarshal([]byte(args[1]), &record); err != nil {
				return fmt.Errorf("invalid record JSON: %w", err)
			}

			id, err := cli.client.InsertRecord(cmd.Context(), args[0], record)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
}

func newRecordsUpdateCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update TABLE_ID RECORD_ID JSON",
		Short: "Patch fields of a record from a JSON object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields map[string]any
			if err := json.Unmarshal([]byte(args[2]), &fields); err != nil {
				return fmt.Errorf("invalid fields JSON: %w", err)
			}

			id, err := cli.client.UpdateRecord(cmd.Context(), args[0], args[1], fields)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
}

func newRecordsDeleteCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TABLE_ID RECORD_ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cli.client.DeleteRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}
}

func newRecordsCountCommand(cli *cliContext) *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "count TABLE_ID",
		Short: "Count records of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := cli.client.CountRecords(cmd.Context(), args[0], where)
			if err != nil {
				return err
			}
			fmt.Println(count)
			return nil
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "filter expression")
	return cmd
}
