package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bauer-group/LIB-NocoDB-SimpleClient/pkg/nocodb"
)

func newFilesCommand(cli *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Attachment upload, download and inspection",
	}

	cmd.AddCommand(
		newFilesValidateCommand(cli),
		newFilesHashCommand(cli),
		newFilesUploadCommand(cli),
		newFilesAttachCommand(cli),
		newFilesDownloadCommand(cli),
		newFilesDownloadAllCommand(cli),
		newFilesInfoCommand(cli),
		newFilesSummaryCommand(cli),
		newFilesCleanupCommand(cli),
	)
	return cmd
}

func newFilesValidateCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH",
		Short: "Validate a local file and print its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := cli.files.ValidateFile(args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newFilesHashCommand(cli *cliContext) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "hash PATH",
		Short: "Compute the content hash of a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := cli.files.CalculateFileHash(args[0], nocodb.HashAlgorithm(algorithm))
			if err != nil {
				return err
			}
			fmt.Println(digest)
			return nil
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", string(nocodb.HashSHA256), "hash algorithm: sha256, sha1 or md5")
	return cmd
}

func newFilesUploadCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload TABLE_ID PATH...",
		Short: "Upload local files to a table's storage area",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := cli.files.UploadFilesBatch(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
}

func newFilesAttachCommand(cli *cliContext) *cobra.Command {
	var appendMode bool

	cmd := &cobra.Command{
		Use:   "attach TABLE_ID RECORD_ID FIELD PATH...",
		Short: "Upload files and attach them to a record field",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tableID, recordID, field, paths := args[0], args[1], args[2], args[3:]

			var (
				id  string
				err error
			)
			if appendMode {
				id, err = cli.client.AppendFilesToRecord(cmd.Context(), tableID, recordID, field, paths)
			} else {
				id, err = cli.files.AttachFilesToRecord(cmd.Context(), tableID, recordID, field, paths)
			}
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&appendMode, "append", false, "keep existing attachments instead of replacing them")
	return cmd
}

func newFilesDownloadCommand(cli *cliContext) *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "download TABLE_ID RECORD_ID FIELD DEST",
		Short: "Download one attachment to a local path",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cli.files.DownloadFile(cmd.Context(), args[0], args[1], args[2], index, args[3])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "zero-based attachment index")
	return cmd
}

func newFilesDownloadAllCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "download-all TABLE_ID RECORD_ID FIELD DEST_DIR",
		Short: "Download every attachment of a field",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := cli.files.DownloadRecordAttachments(cmd.Context(), args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		},
	}
}

func newFilesInfoCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info TABLE_ID RECORD_ID FIELD",
		Short: "Print the attachment descriptors of a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			attachments, err := cli.files.GetAttachmentInfo(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printJSON(attachments)
		},
	}
}

func newFilesSummaryCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary TABLE_ID RECORD_ID FIELD",
		Short: "Summarize the attachments of a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := cli.files.CreateAttachmentSummary(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			types := make([]string, 0, len(summary.FileTypes))
			for t := range summary.FileTypes {
				types = append(types, t)
			}
			sort.Strings(types)

			fmt.Printf("attachments: %d\n", summary.TotalCount)
			fmt.Printf("total size:  %d bytes\n", summary.TotalSize)
			fmt.Printf("file types:  %v\n", types)
			return nil
		},
	}
}

func newFilesCleanupCommand(cli *cliContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove temporary download files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := cli.files.CleanupTempFiles(dir)
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory to clean (defaults to the client temp dir)")
	return cmd
}
