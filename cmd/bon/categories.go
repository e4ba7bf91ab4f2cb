package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bon-scanner/internal/cli"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage product categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with product counts and spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}
			products, err := store.ListProducts(ctx)
			if err != nil {
				return err
			}
			receipts, err := store.ListReceipts(ctx, service.ReceiptFilter{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No categories yet. They are created while saving receipts or with 'bon categories add'."))
				return nil
			}

			fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Products", "Spent"}, categoryRows(categories, products, receipts)))
			return nil
		},
	}
}

func categoryRows(categories []model.Category, products []model.Product, receipts []model.Receipt) [][]string {
	counts := make(map[int64]int, len(categories))
	for _, p := range products {
		counts[p.CategoryID]++
	}

	spent := make(map[string]string)
	for _, s := range model.SummarizeAll(receipts) {
		spent[s.Category] = s.Total.StringFixed(2)
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Name, strconv.Itoa(counts[c.ID]), valueOr(spent[c.Name], "0.00")})
	}
	return rows
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("category name cannot be empty")
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			category, err := store.CreateCategory(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category %q ready (id %d)", category.Name, category.ID)))
			return nil
		},
	}
}
