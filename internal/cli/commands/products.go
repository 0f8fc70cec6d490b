package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/client"
	"github.com/nutrabionics/storefront/internal/cli/forms"
	"github.com/nutrabionics/storefront/internal/cli/guard"
)

// NewProductsCmd creates the products command group. Every subcommand
// requires an admin.
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage the product catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newProductsDeleteCmd())

	return Require(cmd, guard.Admin)
}

func newProductsListCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductsList(cmd.Context(), page, limit)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "Products per page")

	return cmd
}

func runProductsList(ctx context.Context, page, limit int) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	resp, err := env.API.ListProducts(ctx, page, limit)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	if len(resp.Data) == 0 && env.plain() {
		fmt.Fprintln(env.Out, "No products found.")
		fmt.Fprintln(env.Out, "\nCreate one with: storefront products create")
		return nil
	}

	return env.render(productList(*resp))
}

func newProductsGetCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one product by ID or --slug",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			return runProductsGet(cmd.Context(), id, slug)
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "Look the product up by its slug")

	return cmd
}

func runProductsGet(ctx context.Context, id, slug string) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	var product *client.Product
	switch {
	case id != "" && slug != "":
		return errors.New("pass either a product ID or --slug, not both")
	case slug != "":
		product, err = env.API.GetProductBySlug(ctx, slug)
	case id != "":
		product, err = env.API.GetProduct(ctx, id)
	default:
		return errors.New("a product ID or --slug is required")
	}
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}

	return env.render(productDetail(*product))
}

func newProductsCreateCmd() *cobra.Command {
	var form forms.ProductForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a product to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductsCreate(cmd.Context(), form)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Product description")
	cmd.Flags().Float64Var(&form.Price, "price", 0, "Unit price")
	cmd.Flags().IntVar(&form.Quantity, "quantity", 0, "Units in stock")
	cmd.Flags().StringVar(&form.Reference, "reference", "", "Product reference code")

	return cmd
}

func runProductsCreate(ctx context.Context, form forms.ProductForm) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	if err := forms.Validate(form); err != nil {
		return err
	}

	product, err := env.API.CreateProduct(ctx, form.Input())
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if env.plain() {
		fmt.Fprintf(env.Out, "✓ Created %s\n\n", product)
	}
	return env.render(productDetail(*product))
}

func newProductsUpdateCmd() *cobra.Command {
	var (
		name, description, reference string
		price                        float64
		quantity                     int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only flags given on the command line become part of the update
			var form forms.ProductUpdateForm
			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = &name
			}
			if flags.Changed("description") {
				form.Description = &description
			}
			if flags.Changed("price") {
				form.Price = &price
			}
			if flags.Changed("quantity") {
				form.Quantity = &quantity
			}
			if flags.Changed("reference") {
				form.Reference = &reference
			}
			return runProductsUpdate(cmd.Context(), args[0], form)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().Float64Var(&price, "price", 0, "Unit price")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units in stock")
	cmd.Flags().StringVar(&reference, "reference", "", "Product reference code")

	return cmd
}

func runProductsUpdate(ctx context.Context, id string, form forms.ProductUpdateForm) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	patch := form.Patch()
	if patch.Empty() {
		return errors.New("nothing to update: pass at least one of --name, --description, --price, --quantity, --reference")
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	product, err := env.API.UpdateProduct(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if env.plain() {
		fmt.Fprintf(env.Out, "✓ Updated %s\n\n", product)
	}
	return env.render(productDetail(*product))
}

func newProductsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductsDelete(cmd.Context(), args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runProductsDelete(ctx context.Context, id string, yes bool) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	if !yes {
		if env.Prompt == nil || !env.Prompt.Interactive() {
			return errors.New("refusing to delete without confirmation in non-interactive mode (use --yes)")
		}
		ok, err := env.Prompt.Confirm(fmt.Sprintf("Delete product %s", id))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(env.Out, "Aborted.")
			return nil
		}
	}

	if err := env.API.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	fmt.Fprintf(env.Out, "✓ Deleted product %s\n", id)
	return nil
}
