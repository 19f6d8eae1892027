package cli

import (
	"context"
	"errors"
	"os"

	"github.com/eduline/studyshop/internal/client/api"
)

// Login performs the authentication exchange and commits the result into
// the session store.
func (a *App) Login(ctx context.Context) {
	phone, err := GetSimpleText(a.reader, "Enter phone number", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return
	}

	identity, err := a.api.Login(ctx, phone, password)
	if err != nil {
		var apiErr *api.APIError
		switch {
		case errors.As(err, &apiErr):
			printlnFn("Login failed:", apiErr.Message)
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, try again later")
		default:
			printlnFn("Login failed:", err)
		}
		return
	}

	if err := a.store.Login(ctx, *identity); err != nil {
		printlnFn("error:", err)
		return
	}

	printlnFn("Welcome,", identity.UserName)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.store.Logout(ctx); err != nil {
		printlnFn("error:", err)
		return
	}
	printlnFn("Logged out")
}

func (a *App) WhoAmI(ctx context.Context) {
	snap := a.store.Snapshot()
	if !snap.LoggedIn() {
		printlnFn("Not logged in")
		return
	}
	if snap.LoadingIdentity {
		printlnFn("Checking identity with the server...")
	}
	printlnFn("Name:   ", snap.UserName)
	printlnFn("Phone:  ", snap.PhoneNumber)
	printlnFn("Balance:", snap.WalletBalance)
}
