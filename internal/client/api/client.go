// Package api implements the client for the storefront backend: JSON over
// HTTPS, bearer-token authorization, and the {errorCode, errorMessage,
// data} response envelope where errorCode == 0 means success.
package api

import (
	"context"

	"github.com/eduline/studyshop/internal/client/models"
)

// Profile is the subset of CheckStudentData the client cares about.
type Profile struct {
	FullName string `json:"fullName"`
}

// Client defines the remote operations consumed by the session store and
// the CLI. All methods honor context cancellation and return either a
// transport error wrapping ErrUnavailable, ErrUnauthorized, or an
// *APIError carrying the backend's errorCode/errorMessage.
type Client interface {
	// SetToken installs the bearer token used on subsequent requests.
	// An empty token clears it.
	SetToken(token string)

	// Login performs the authentication exchange and returns the resulting
	// identity. It does not install the token; the caller decides what to
	// commit.
	Login(ctx context.Context, phoneNumber, password string) (*models.Identity, error)

	// CheckStudentData fetches the server-side profile. A nil Profile with
	// a nil error means the endpoint answered with a non-profile payload
	// (the backend also uses this route for a bare completeness boolean).
	CheckStudentData(ctx context.Context) (*Profile, error)

	GetCartItems(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, bookID int64, quantity int) error
	DeleteCartItem(ctx context.Context, itemID int64) error
	DeleteCart(ctx context.Context) error
	AddOrUpdateAddress(ctx context.Context, address string) error
	ConfirmOrder(ctx context.Context) error

	// PayLectures spends wallet money to unlock a lecture/homework group.
	// Success is a plain HTTP 200.
	PayLectures(ctx context.Context, onlineSubSubjectID string) error

	GetAllBooks(ctx context.Context, pageNumber, pageSize int) ([]models.Book, error)
}
