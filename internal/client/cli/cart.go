package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/eduline/studyshop/internal/client/api"
	"github.com/eduline/studyshop/internal/client/session"
)

func (a *App) ShowCart(ctx context.Context) {
	snap := a.store.Snapshot()
	if len(snap.CartItems) == 0 {
		printlnFn("Cart is empty")
		return
	}
	for _, item := range snap.CartItems {
		printlnFn(fmt.Sprintf("#%d %s x%d = %.2f", item.ID, item.BookName, item.Quantity, item.SubTotal))
	}
	printlnFn(fmt.Sprintf("Total: %.2f (+%.2f delivery)", snap.CartTotal, snap.DeliveryFees))
}

func (a *App) AddToCart(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: add <bookId>")
		return
	}
	bookID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid book id:", args[0])
		return
	}

	if err := a.store.AddToCart(ctx, bookID, 1); err != nil {
		a.reportCartError(err)
		return
	}
	printlnFn("Added to cart, items:", a.store.CartCount())
}

func (a *App) RemoveFromCart(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: remove <itemId>")
		return
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid item id:", args[0])
		return
	}

	if err := a.store.RemoveFromCart(ctx, itemID); err != nil {
		a.reportCartError(err)
		return
	}
	printlnFn("Removed, items:", a.store.CartCount())
}

func (a *App) ClearCart(ctx context.Context) {
	if err := a.store.ClearCart(ctx); err != nil {
		a.reportCartError(err)
		return
	}
	printlnFn("Cart cleared")
}

func (a *App) Checkout(ctx context.Context) {
	address, err := GetSimpleText(a.reader, "Enter delivery address", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return
	}

	if err := a.store.ConfirmOrder(ctx, address); err != nil {
		if errors.Is(err, session.ErrEmptyAddress) {
			printlnFn("An address is required")
			return
		}
		a.reportCartError(err)
		return
	}
	printlnFn("Order confirmed")
}

func (a *App) reportCartError(err error) {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		printlnFn("Log in first")
	case errors.Is(err, session.ErrRequestInFlight):
		printlnFn("Still working on the previous request...")
	case errors.As(err, &apiErr):
		printlnFn("Server refused:", apiErr.Message)
	case errors.Is(err, api.ErrUnavailable):
		printlnFn("Server unavailable, try again later")
	default:
		printlnFn("error:", err)
	}
}
