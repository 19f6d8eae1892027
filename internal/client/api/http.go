package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eduline/studyshop/internal/client/models"
)

// The backend expects this exact content type on POST bodies.
const contentTypeJSON = "application/json-patch+json"

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	baseURL string
	lang    string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the given base URL. The lang value is
// sent on every request so the backend localizes error messages.
func NewHTTPClient(baseURL, lang string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		lang:    lang,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a request and returns the response status plus raw body.
// Transport failures come back wrapping ErrUnavailable; a 401 comes back
// as ErrUnauthorized.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("lang", c.lang)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if t := c.bearer(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, raw, ErrUnauthorized
	}

	return resp.StatusCode, raw, nil
}

type envelope struct {
	ErrorCode    int             `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
	Data         json.RawMessage `json:"data"`
}

// call issues a request, requires a 2xx status, decodes the response
// envelope, and enforces errorCode == 0. It returns the raw data payload.
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	status, raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, status)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if env.ErrorCode != 0 {
		return nil, &APIError{Code: env.ErrorCode, Message: env.ErrorMessage}
	}
	return env.Data, nil
}

type loginRequest struct {
	PhoneNumber string  `json:"phoneNumber"`
	Password    string  `json:"password"`
	IsPersist   bool    `json:"isPersist"`
	DeviceToken *string `json:"deviceToken"`
}

type loginResponse struct {
	Token    string  `json:"token"`
	FullName string  `json:"fullName"`
	UserID   string  `json:"userId"`
	Money    float64 `json:"money"`
}

func (c *HTTPClient) Login(ctx context.Context, phoneNumber, password string) (*models.Identity, error) {
	data, err := c.call(ctx, http.MethodPost, "/api/Users/login", nil, loginRequest{
		PhoneNumber: phoneNumber,
		Password:    password,
		IsPersist:   true,
	})
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode login payload: %w", err)
	}

	return &models.Identity{
		UserName:      resp.FullName,
		PhoneNumber:   phoneNumber,
		Token:         resp.Token,
		WalletBalance: resp.Money,
		StudentID:     resp.UserID,
	}, nil
}

func (c *HTTPClient) CheckStudentData(ctx context.Context) (*Profile, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/Students/CheckStudentData", nil, nil)
	if err != nil {
		return nil, err
	}

	// The same route sometimes answers with a bare boolean ("student data
	// complete"). Only an object payload carries the profile.
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil
	}
	if p.FullName == "" {
		return nil, nil
	}
	return &p, nil
}

func (c *HTTPClient) GetCartItems(ctx context.Context) (*models.Cart, error) {
	data, err := c.call(ctx, http.MethodGet, "/api/Order/GetCartItems", nil, nil)
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart payload: %w", err)
	}
	return &cart, nil
}

type addToCartRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

func (c *HTTPClient) AddToCart(ctx context.Context, bookID int64, quantity int) error {
	_, err := c.call(ctx, http.MethodPost, "/api/Order/AddToCart", nil, addToCartRequest{
		BookID:   bookID,
		Quantity: quantity,
	})
	return err
}

func (c *HTTPClient) DeleteCartItem(ctx context.Context, itemID int64) error {
	q := url.Values{}
	q.Set("itemId", strconv.FormatInt(itemID, 10))
	_, err := c.call(ctx, http.MethodDelete, "/api/Order/DeleteCartItem", q, nil)
	return err
}

func (c *HTTPClient) DeleteCart(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodDelete, "/api/Order/DeleteCart", nil, nil)
	return err
}

type addressRequest struct {
	Address string `json:"address"`
}

func (c *HTTPClient) AddOrUpdateAddress(ctx context.Context, address string) error {
	_, err := c.call(ctx, http.MethodPost, "/api/Order/AddOrUpdateAddress", nil, addressRequest{Address: address})
	return err
}

func (c *HTTPClient) ConfirmOrder(ctx context.Context) error {
	_, err := c.call(ctx, http.MethodPost, "/api/Order/ConfirmOrder", nil, nil)
	return err
}

type payLecturesRequest struct {
	OnlineSubSubjectID string `json:"onlineSubSubjectId"`
}

// PayLectures succeeds on any 2xx; the endpoint answers text/plain, not
// the usual envelope.
func (c *HTTPClient) PayLectures(ctx context.Context, onlineSubSubjectID string) error {
	status, _, err := c.do(ctx, http.MethodPost, "/api/OnlineSubSubjects/PayOnlineSubSubjectLectures", nil,
		payLecturesRequest{OnlineSubSubjectID: onlineSubSubjectID})
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, status)
	}
	return nil
}

func (c *HTTPClient) GetAllBooks(ctx context.Context, pageNumber, pageSize int) ([]models.Book, error) {
	q := url.Values{}
	q.Set("PageNumber", strconv.Itoa(pageNumber))
	q.Set("PageSize", strconv.Itoa(pageSize))

	data, err := c.call(ctx, http.MethodGet, "/api/Books/GetAllBooks", q, nil)
	if err != nil {
		return nil, err
	}

	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books payload: %w", err)
	}
	return books, nil
}
