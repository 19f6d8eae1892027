package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduline/studyshop/internal/client/api"
)

const booksPageSize = 100

// Books lists the catalog. Works without a login; the backend serves the
// catalog publicly.
func (a *App) Books(ctx context.Context) {
	books, err := a.api.GetAllBooks(ctx, 1, booksPageSize)
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			printlnFn("Server unavailable, try again later")
			return
		}
		printlnFn("error:", err)
		return
	}

	if len(books) == 0 {
		printlnFn("No books in the catalog")
		return
	}
	for _, b := range books {
		printlnFn(fmt.Sprintf("#%d %s - %.2f", b.ID, b.Name, b.Price))
	}
}
