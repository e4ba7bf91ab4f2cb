package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/cli"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
		Long: `Create, list and delete snapshots of the receipt database.

Backups are written to a "backups" directory next to the database file.`,
		Example: `  bon backup create --tag before-cleanup
  bon backup list
  bon backup delete before-cleanup`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(deleteBackupCmd())
	return cmd
}

func createBackupCmd() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Snapshot the current database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return err
			}

			info, err := manager.Create(ctx, tag)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created backup %s (%s)", info.ID, formatFileSize(info.FileSize))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "backup name (default: timestamp)")
	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return err
			}
			backups, err := manager.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No backups found"))
				return nil
			}

			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				kind := "manual"
				if b.IsAuto {
					kind = "auto"
				}
				rows = append(rows, []string{
					b.ID,
					b.CreatedAt.Format("2006-01-02 15:04"),
					formatFileSize(b.FileSize),
					strconv.Itoa(b.RowCounts["bons"]),
					strconv.Itoa(b.SchemaVersion),
					kind,
				})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Created", "Size", "Receipts", "Schema", "Type"}, rows))
			return nil
		},
	}
}

func deleteBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			manager, err := store.NewBackupManager()
			if err != nil {
				return err
			}
			if err := manager.Delete(args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted backup "+args[0]))
			return nil
		},
	}
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
