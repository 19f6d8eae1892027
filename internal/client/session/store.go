// Package session implements the client session store: the single source
// of truth, within one running client, for identity, token, wallet
// balance, subscribed content groups, and cart. State is kept consistent
// between memory (read by the UI), durable local storage (survives
// restarts), and the remote backend (the authority for token validity,
// wallet balance, and cart contents).
//
// Every mutation follows the same dependency order: remote call first when
// server confirmation is required, then the in-memory update, then the
// durable-storage write. Background refreshes and cross-client storage
// events feed the same guarded mutators, so the invariants live in one
// place.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/eduline/studyshop/internal/client/api"
	"github.com/eduline/studyshop/internal/client/models"
	"github.com/eduline/studyshop/internal/client/storage"
	"github.com/eduline/studyshop/internal/logging"
)

// Store holds the session state. One instance per running client; pages
// and commands share it rather than keeping copies.
type Store struct {
	api api.Client
	st  storage.Storage
	log logging.Logger

	mu               sync.RWMutex
	userName         string
	phoneNumber      string
	token            string
	walletBalance    float64
	subscribedGroups []string
	cartItems        []models.CartItem
	cartCount        int
	cartTotal        float64
	deliveryFees     float64
	loadingIdentity  bool

	inflight map[string]struct{}

	refreshWG sync.WaitGroup
}

// New builds a Store over the given API client and storage. Call
// Initialize before first use.
func New(apiClient api.Client, st storage.Storage, log logging.Logger) *Store {
	return &Store{
		api:      apiClient,
		st:       st,
		log:      log.With("component", "session"),
		inflight: map[string]struct{}{},
	}
}

// Initialize hydrates the in-memory state from durable storage and, when a
// usable token is present, kicks off a background revalidation of identity
// and cart against the server. Malformed stored values degrade to zero
// values; nothing here fails the caller.
func (s *Store) Initialize(ctx context.Context) error {
	values, err := s.st.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.mu.Lock()
	s.userName = values[storage.KeyUserName]
	s.phoneNumber = values[storage.KeyPhoneNumber]
	s.token = values[storage.KeyToken]
	s.walletBalance = parseMoney(values[storage.KeyMoney])
	s.subscribedGroups = parseGroups(values[storage.KeySubscribedGroups])

	token := s.token
	if token != "" && tokenExpired(token) {
		// A locally expired JWT is as good as no token; skip the doomed
		// revalidation round trip.
		s.log.Warn(ctx, "stored token is expired, staying unauthenticated")
		token = ""
		s.token = ""
	}
	if token != "" {
		s.loadingIdentity = true
	}
	s.mu.Unlock()

	if token == "" {
		return nil
	}

	s.api.SetToken(token)

	s.refreshWG.Add(1)
	go func() {
		defer s.refreshWG.Done()
		s.refresh(ctx)
	}()

	return nil
}

// refresh revalidates identity and cart. Failures keep the cached state
// and are only logged; loadingIdentity settles either way.
func (s *Store) refresh(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loadingIdentity = false
		s.mu.Unlock()
	}()

	s.refreshIdentity(ctx)
	if err := s.syncCart(ctx); err != nil {
		s.log.Warn(ctx, "cart refresh failed, keeping cached cart", "error", err)
	}
}

// refreshIdentity asks the server for the profile and reconciles the
// display name with the cached one. Transient transport failures are
// retried with a short backoff.
func (s *Store) refreshIdentity(ctx context.Context) {
	var profile *api.Profile

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := s.api.CheckStudentData(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		profile = p
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "identity check failed, keeping cached name", "error", err)
		return
	}
	if profile == nil || profile.FullName == "" {
		return
	}

	s.mu.Lock()
	changed := profile.FullName != s.userName
	if changed {
		s.userName = profile.FullName
	}
	s.mu.Unlock()

	if changed {
		if err := s.st.Set(ctx, storage.KeyUserName, profile.FullName); err != nil {
			s.log.Error(ctx, "failed to persist refreshed name", "error", err)
		}
	}
}

// WaitForRefresh blocks until the background revalidation started by
// Initialize has settled. Mainly for shutdown paths and tests.
func (s *Store) WaitForRefresh() {
	s.refreshWG.Wait()
}

// Login commits the result of an authentication exchange: all identity
// fields go to memory and storage, and a cart refresh starts in the
// background. The exchange itself is the caller's job.
func (s *Store) Login(ctx context.Context, id models.Identity) error {
	s.api.SetToken(id.Token)

	s.mu.Lock()
	s.userName = id.UserName
	s.phoneNumber = id.PhoneNumber
	s.token = id.Token
	s.walletBalance = id.WalletBalance
	s.mu.Unlock()

	values := map[string]string{
		storage.KeyUserName:    id.UserName,
		storage.KeyPhoneNumber: id.PhoneNumber,
		storage.KeyToken:       id.Token,
		storage.KeyMoney:       formatMoney(id.WalletBalance),
	}
	if id.StudentID != "" {
		values[storage.KeyStudentID] = id.StudentID
	}
	if err := s.st.SetMany(ctx, values); err != nil {
		return fmt.Errorf("failed to persist login: %w", err)
	}

	s.refreshWG.Add(1)
	go func() {
		defer s.refreshWG.Done()
		if err := s.syncCart(ctx); err != nil {
			s.log.Warn(ctx, "cart refresh after login failed", "error", err)
		}
	}()

	return nil
}

// Logout resets every field to its zero value and removes every storage
// key, including the legacy ones. Calling it while logged out is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.api.SetToken("")

	s.mu.Lock()
	s.userName = ""
	s.phoneNumber = ""
	s.token = ""
	s.walletBalance = 0
	s.subscribedGroups = nil
	s.cartItems = nil
	s.cartCount = 0
	s.cartTotal = 0
	s.deliveryFees = 0
	s.mu.Unlock()

	if err := s.st.DeleteMany(ctx, storage.SessionKeys()...); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.Session{
		UserName:        s.userName,
		PhoneNumber:     s.phoneNumber,
		Token:           s.token,
		WalletBalance:   s.walletBalance,
		CartCount:       s.cartCount,
		CartTotal:       s.cartTotal,
		DeliveryFees:    s.deliveryFees,
		LoadingIdentity: s.loadingIdentity,
	}
	out.SubscribedGroups = append(out.SubscribedGroups, s.subscribedGroups...)
	out.CartItems = append(out.CartItems, s.cartItems...)
	return out
}

// LoadingIdentity reports whether the startup identity check is still
// pending; identity-sensitive UI should hold off until it settles.
func (s *Store) LoadingIdentity() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingIdentity
}

func (s *Store) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// begin registers op as in flight. A second identical request while the
// first is pending is refused rather than raced.
func (s *Store) begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[op]; ok {
		return false
	}
	s.inflight[op] = struct{}{}
	return true
}

func (s *Store) end(op string) {
	s.mu.Lock()
	delete(s.inflight, op)
	s.mu.Unlock()
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Tokens that do not parse as JWTs are treated as opaque and left for the
// server to judge.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

func parseMoney(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseGroups(raw string) []string {
	if raw == "" {
		return nil
	}
	var groups []string
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil
	}
	return groups
}
