package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/cli"
)

func blacklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage text that is dropped from OCR results",
		Long: `Lines containing any blacklisted text are removed right after OCR,
for example the store address or "Kartenzahlung".`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List blacklisted text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			entries, err := store.ListBlacklist(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("The blacklist is empty"))
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintln(out, entry)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Blacklist text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := strings.Join(args, " ")
			if strings.TrimSpace(entry) == "" {
				return fmt.Errorf("blacklist entry cannot be empty")
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.AddBlacklistEntry(ctx, entry); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Blacklisted %q", entry)))
			return nil
		},
	})

	return cmd
}
