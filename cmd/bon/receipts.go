package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/cli"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "receipts",
		Aliases: []string{"bons"},
		Short:   "Browse saved receipts",
	}

	cmd.AddCommand(listReceiptsCmd())
	cmd.AddCommand(showReceiptCmd())
	cmd.AddCommand(hideReceiptCmd())
	return cmd
}

func listReceiptsCmd() *cobra.Command {
	var (
		all   bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved receipts, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			receipts, err := store.ListReceipts(ctx, service.ReceiptFilter{IncludeHidden: all, Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(receipts) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No receipts saved yet"))
				return nil
			}

			rows := make([][]string, 0, len(receipts))
			for _, r := range receipts {
				rows = append(rows, receiptRow(r))
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Total", "Items", "Status"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden receipts")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many receipts")
	return cmd
}

func receiptRow(r model.Receipt) []string {
	status := ""
	switch {
	case r.Hidden:
		status = "hidden"
	case !r.Price.Sub(r.ComputedTotal()).Abs().LessThanOrEqual(settings.ReconcileTolerance):
		status = cli.WarningStyle.Render("totals differ")
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Date,
		r.Price.StringFixed(2),
		strconv.Itoa(len(r.Entries)),
		status,
	}
}

func showReceiptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the items and category totals of a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			receipt, err := store.GetReceipt(ctx, id)
			if err != nil {
				return err
			}

			entries := make([][]string, 0, len(receipt.Entries))
			for _, e := range receipt.Entries {
				entries = append(entries, []string{e.Product, e.Category, e.Price.StringFixed(2)})
			}

			summary := model.Summarize(*receipt)
			totals := make([][]string, 0, len(summary))
			for _, s := range summary {
				totals = append(totals, []string{s.Category, s.Total.StringFixed(2)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Receipt %d from %s (%s)", receipt.ID, receipt.Date, receipt.Price.StringFixed(2))))
			fmt.Fprintln(out, cli.RenderTable([]string{"Product", "Category", "Price"}, entries))
			fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Total"}, totals))
			return nil
		},
	}
}

func hideReceiptCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "hide <id>",
		Short: "Hide a receipt from listings and exports",
		Long: `Hide a receipt. Hidden receipts stay in the database and can still be
listed with 'bon receipts list --all'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			receipt, err := store.GetReceipt(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				question := fmt.Sprintf("Hide receipt %d from %s over %s?", receipt.ID, receipt.Date, receipt.Price.StringFixed(2))
				ok, err := cli.Confirm(ctx, os.Stdin, out, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Nothing changed"))
					return nil
				}
			}

			if err := store.HideReceipt(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Receipt %d hidden", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid receipt id %q", arg)
	}
	return id, nil
}
