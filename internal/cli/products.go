package cli

import (
	"fmt"
	"strings"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/spf13/cobra"
)

var (
	productsCategory string
	productsBrand    string
	productsOnSale   bool
	productsFeatured bool
	productsLimit    int
)

var productsCmd = &cobra.Command{
	Use:   "products [search terms]",
	Short: "Browse or search the product catalog",
	Long: `Browse the product catalog, optionally filtered, or search it by keyword.

Examples:
  shopbot products
  shopbot products --category laptops --on-sale
  shopbot products noise cancelling headphones`,
	RunE: runProducts,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := apiClient.Categories(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", friendlyError(err))
		}
		for _, c := range categories {
			fmt.Println(c)
		}
		return nil
	},
}

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List product brands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		brands, err := apiClient.Brands(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s", friendlyError(err))
		}
		for _, b := range brands {
			fmt.Println(b)
		}
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVarP(&productsCategory, "category", "c", "", "filter by category")
	productsCmd.Flags().StringVarP(&productsBrand, "brand", "b", "", "filter by brand")
	productsCmd.Flags().BoolVar(&productsOnSale, "on-sale", false, "only products on sale")
	productsCmd.Flags().BoolVar(&productsFeatured, "featured", false, "only featured products")
	productsCmd.Flags().IntVarP(&productsLimit, "limit", "n", 20, "max results")

	productsCmd.AddCommand(categoriesCmd)
	productsCmd.AddCommand(brandsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	var products []api.Product

	if len(args) > 0 {
		results, err := apiClient.SearchProducts(cmd.Context(), strings.Join(args, " "), productsLimit)
		if err != nil {
			return fmt.Errorf("%s", friendlyError(err))
		}
		products = results.Products
	} else {
		list, err := apiClient.Products(cmd.Context(), api.ProductFilter{
			Category: productsCategory,
			Brand:    productsBrand,
			OnSale:   productsOnSale,
			Featured: productsFeatured,
			Limit:    productsLimit,
		})
		if err != nil {
			return fmt.Errorf("%s", friendlyError(err))
		}
		products = list.Products
	}

	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	for _, p := range products {
		fmt.Println(formatProductLine(p))
	}
	return nil
}

// formatProductLine renders one product as a single display line.
func formatProductLine(p api.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s $%.2f", truncate(p.Name, 40), p.DisplayPrice)
	if p.IsOnSale && p.SalePrice > 0 && p.Price != p.DisplayPrice {
		fmt.Fprintf(&b, " (was $%.2f)", p.Price)
	}
	fmt.Fprintf(&b, "  %.1f★  %d in stock", p.Rating, p.StockQuantity)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
