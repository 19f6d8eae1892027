package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/eduline/studyshop/internal/client/session"
)

func (a *App) Balance(ctx context.Context) {
	printlnFn(fmt.Sprintf("Wallet balance: %.2f", a.store.WalletBalance()))
}

// Unlock spends wallet money on a lecture/homework group.
func (a *App) Unlock(ctx context.Context, args []string) {
	if len(args) < 2 {
		printlnFn("Usage: unlock <groupId> <price>")
		return
	}
	groupID := args[0]
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		printlnFn("Invalid price:", args[1])
		return
	}

	if a.store.IsSubscribed(groupID) {
		printlnFn("Already unlocked")
		return
	}

	if err := a.store.SpendFromWallet(ctx, price, groupID); err != nil {
		if errors.Is(err, session.ErrInsufficientFunds) {
			printlnFn("Insufficient funds")
			return
		}
		a.reportCartError(err)
		return
	}
	printlnFn(fmt.Sprintf("Unlocked group %s, balance: %.2f", groupID, a.store.WalletBalance()))
}

func (a *App) Groups(ctx context.Context) {
	groups := a.store.Snapshot().SubscribedGroups
	if len(groups) == 0 {
		printlnFn("No unlocked groups")
		return
	}
	for _, g := range groups {
		printlnFn(" -", g)
	}
}
