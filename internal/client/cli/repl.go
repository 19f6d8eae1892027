package cli

import (
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

func (a *App) getStatus() string {
	snap := a.store.Snapshot()

	s := ""
	if snap.UserName != "" {
		s = snap.UserName
	}
	if snap.CartCount > 0 {
		s += fmt.Sprintf(" cart:%d", snap.CartCount)
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Repl(ctx context.Context) {

	printlnFn("Welcome to the studyshop client (type 'help' for commands)")

	for {
		fmt.Printf("shop %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			if strings.TrimSpace(line) == "" {
				break
			}
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, books, cart, add <bookId>, remove <itemId>, clearcart, checkout, balance, unlock <groupId> <price>, groups, logout, exit")
			} else {
				printlnFn("Available commands: login, books, exit")
			}
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.WhoAmI(ctx)
		case "books":
			a.Books(ctx)
		case "cart":
			a.ShowCart(ctx)
		case "add":
			a.AddToCart(ctx, args)
		case "remove":
			a.RemoveFromCart(ctx, args)
		case "clearcart":
			a.ClearCart(ctx)
		case "checkout":
			a.Checkout(ctx)
		case "balance":
			a.Balance(ctx)
		case "unlock":
			a.Unlock(ctx, args)
		case "groups":
			a.Groups(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
