package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pricetrack/internal/app"
)

var (
	listCategory string
	listSort     string
	listQuery    string
	alertsUnread bool
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products with their price range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Products(cmd.Context(), app.ListOptions{
			Category: listCategory,
			Sort:     listSort,
			Query:    listQuery,
		})
	},
}

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List suppliers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Suppliers(cmd.Context(), app.ListOptions{Query: listQuery})
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List price alerts, unread first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Alerts(cmd.Context(), app.ListOptions{UnreadOnly: alertsUnread})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <product-id>",
	Short: "Compare supplier prices for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Compare(cmd.Context(), args[0])
	},
}

var setPriceCmd = &cobra.Command{
	Use:   "set-price <product-id> <supplier-id> <price>",
	Short: "Record a supplier price and evaluate alerts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", args[2], err)
		}
		return getApp().SetPrice(cmd.Context(), args[0], args[1], price)
	},
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read <alert-id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().MarkRead(cmd.Context(), args[0])
	},
}

func init() {
	productsCmd.Flags().StringVar(&listCategory, "category", "", "Only show this category")
	productsCmd.Flags().StringVar(&listSort, "sort", "name", "Sort by name, price-low, price-high or updated")
	productsCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search name, category, SKU and supplier")
	suppliersCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search name, contact, email and notes")
	alertsCmd.Flags().BoolVar(&alertsUnread, "unread", false, "Only show unread alerts")
}
