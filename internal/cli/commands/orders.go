package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrabionics/storefront/internal/cli/forms"
	"github.com/nutrabionics/storefront/internal/cli/guard"
	"github.com/nutrabionics/storefront/internal/cli/session"
)

// NewOrdersCmd creates the orders command group
func NewOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List and place orders",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersCreateCmd())

	return Require(cmd, guard.Authenticated)
}

func newOrdersListCmd() *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List orders (all orders for admins, your own otherwise)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersList(cmd.Context(), page, limit)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 10, "Orders per page")

	return cmd
}

func runOrdersList(ctx context.Context, page, limit int) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}
	admin := session.MustFromContext(ctx).IsAdmin()

	resp, err := env.API.ListOrders(ctx, page, limit, admin)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	if len(resp.Data) == 0 && env.plain() {
		fmt.Fprintln(env.Out, "No orders found.")
		if !admin {
			fmt.Fprintln(env.Out, "\nPlace one with: storefront orders create --item <product-id>:<qty>")
		}
		return nil
	}

	return env.render(orderList{page: *resp, admin: admin})
}

func newOrdersCreateCmd() *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Example: `  storefront orders create --item 6650c1:2 --item 6650c7
  (quantity defaults to 1)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersCreate(cmd.Context(), items)
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Product and quantity as <product-id>:<qty>, repeatable")

	return cmd
}

func runOrdersCreate(ctx context.Context, items []string) error {
	env, err := EnvFrom(ctx)
	if err != nil {
		return err
	}

	form, err := forms.ParseOrderItems(items)
	if err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	order, err := env.API.CreateOrder(ctx, form.Lines())
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	if env.plain() {
		fmt.Fprintf(env.Out, "✓ Order %s placed, total %s\n\n", order.ID, money(order.Total))
	}
	return env.render(orderDetail(*order))
}
