package session

import (
	"context"
	"fmt"
	"strings"
)

// Cart mutations are server-authoritative: the server confirms the change,
// then the full cart is re-fetched and replaces local state in one step.
// That keeps cartCount equal to len(cartItems) by construction and makes
// the most recent successful server response the truth, whatever order
// overlapping requests resolve in.

// AddToCart adds a book to the server cart and refreshes local cart state.
// A duplicate book or any server failure leaves local state untouched and
// is returned to the caller.
func (s *Store) AddToCart(ctx context.Context, bookID int64, quantity int) error {
	if s.currentToken() == "" {
		return ErrNotAuthenticated
	}
	if quantity <= 0 {
		quantity = 1
	}

	op := fmt.Sprintf("addToCart:%d", bookID)
	if !s.begin(op) {
		return ErrRequestInFlight
	}
	defer s.end(op)

	if err := s.api.AddToCart(ctx, bookID, quantity); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	if err := s.syncCart(ctx); err != nil {
		// The add is confirmed; only the refresh failed. Local state is
		// stale, not wrong, and the next sync will catch up.
		s.log.Warn(ctx, "cart re-fetch after add failed", "error", err)
	}
	return nil
}

// RemoveFromCart deletes one cart line on the server, then refreshes.
func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) error {
	if s.currentToken() == "" {
		return ErrNotAuthenticated
	}

	op := fmt.Sprintf("removeFromCart:%d", itemID)
	if !s.begin(op) {
		return ErrRequestInFlight
	}
	defer s.end(op)

	if err := s.api.DeleteCartItem(ctx, itemID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}

	if err := s.syncCart(ctx); err != nil {
		s.log.Warn(ctx, "cart re-fetch after remove failed", "error", err)
	}
	return nil
}

// ClearCart empties the server cart and zeroes local cart state.
func (s *Store) ClearCart(ctx context.Context) error {
	if s.currentToken() == "" {
		return ErrNotAuthenticated
	}

	if !s.begin("clearCart") {
		return ErrRequestInFlight
	}
	defer s.end("clearCart")

	if err := s.api.DeleteCart(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.clearLocalCart()
	return nil
}

// ConfirmOrder sets the delivery address and confirms the order. On
// success the server cart has become an order, so local cart state is
// cleared.
func (s *Store) ConfirmOrder(ctx context.Context, address string) error {
	if s.currentToken() == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(address) == "" {
		return ErrEmptyAddress
	}

	if !s.begin("confirmOrder") {
		return ErrRequestInFlight
	}
	defer s.end("confirmOrder")

	if err := s.api.AddOrUpdateAddress(ctx, address); err != nil {
		return fmt.Errorf("set address: %w", err)
	}
	if err := s.api.ConfirmOrder(ctx); err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}

	s.clearLocalCart()
	return nil
}

// syncCart fetches the server cart and replaces items, count, and totals
// atomically.
func (s *Store) syncCart(ctx context.Context) error {
	cart, err := s.api.GetCartItems(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cartItems = cart.Items
	s.cartCount = len(cart.Items)
	s.cartTotal = cart.Total
	s.deliveryFees = cart.DeliveryFees
	s.mu.Unlock()
	return nil
}

func (s *Store) clearLocalCart() {
	s.mu.Lock()
	s.cartItems = nil
	s.cartCount = 0
	s.cartTotal = 0
	s.deliveryFees = 0
	s.mu.Unlock()
}

// CartCount returns the derived cart badge value.
func (s *Store) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartCount
}
