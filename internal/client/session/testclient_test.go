package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/eduline/studyshop/internal/client/api"
	"github.com/eduline/studyshop/internal/client/models"
	"github.com/eduline/studyshop/internal/client/storage"
	"github.com/eduline/studyshop/internal/logging"
)

// fakeClient implements api.Client with overridable behavior per method.
type fakeClient struct {
	token string

	loginFn         func(ctx context.Context, phone, password string) (*models.Identity, error)
	checkStudentFn  func(ctx context.Context) (*api.Profile, error)
	getCartFn       func(ctx context.Context) (*models.Cart, error)
	addToCartFn     func(ctx context.Context, bookID int64, quantity int) error
	deleteItemFn    func(ctx context.Context, itemID int64) error
	deleteCartFn    func(ctx context.Context) error
	addressFn       func(ctx context.Context, address string) error
	confirmFn       func(ctx context.Context) error
	payLecturesFn   func(ctx context.Context, id string) error
	getAllBooksFn   func(ctx context.Context, page, size int) ([]models.Book, error)
	setTokenCalls   []string
	addToCartCalls  int
	getCartCalls    int
	payLectureCalls int
}

func (f *fakeClient) SetToken(token string) {
	f.token = token
	f.setTokenCalls = append(f.setTokenCalls, token)
}

func (f *fakeClient) Login(ctx context.Context, phone, password string) (*models.Identity, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, phone, password)
	}
	return &models.Identity{}, nil
}

func (f *fakeClient) CheckStudentData(ctx context.Context) (*api.Profile, error) {
	if f.checkStudentFn != nil {
		return f.checkStudentFn(ctx)
	}
	return nil, nil
}

func (f *fakeClient) GetCartItems(ctx context.Context) (*models.Cart, error) {
	f.getCartCalls++
	if f.getCartFn != nil {
		return f.getCartFn(ctx)
	}
	return &models.Cart{}, nil
}

func (f *fakeClient) AddToCart(ctx context.Context, bookID int64, quantity int) error {
	f.addToCartCalls++
	if f.addToCartFn != nil {
		return f.addToCartFn(ctx, bookID, quantity)
	}
	return nil
}

func (f *fakeClient) DeleteCartItem(ctx context.Context, itemID int64) error {
	if f.deleteItemFn != nil {
		return f.deleteItemFn(ctx, itemID)
	}
	return nil
}

func (f *fakeClient) DeleteCart(ctx context.Context) error {
	if f.deleteCartFn != nil {
		return f.deleteCartFn(ctx)
	}
	return nil
}

func (f *fakeClient) AddOrUpdateAddress(ctx context.Context, address string) error {
	if f.addressFn != nil {
		return f.addressFn(ctx, address)
	}
	return nil
}

func (f *fakeClient) ConfirmOrder(ctx context.Context) error {
	if f.confirmFn != nil {
		return f.confirmFn(ctx)
	}
	return nil
}

func (f *fakeClient) PayLectures(ctx context.Context, id string) error {
	f.payLectureCalls++
	if f.payLecturesFn != nil {
		return f.payLecturesFn(ctx, id)
	}
	return nil
}

func (f *fakeClient) GetAllBooks(ctx context.Context, page, size int) ([]models.Book, error) {
	if f.getAllBooksFn != nil {
		return f.getAllBooksFn(ctx, page, size)
	}
	return nil, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestStore wires a Store over a fake client and in-memory storage.
func newTestStore(t *testing.T) (*Store, *fakeClient, *storage.MemoryStorage) {
	t.Helper()
	client := &fakeClient{}
	st := storage.NewMemoryStorage()
	return New(client, st, testLogger()), client, st
}
