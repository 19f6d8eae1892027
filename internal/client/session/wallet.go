package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eduline/studyshop/internal/client/storage"
)

// groupKey normalizes a group identifier to its string form, so 42 and
// "42" name the same group.
func groupKey(groupID any) string {
	return fmt.Sprint(groupID)
}

// AddSubscribedGroup records that a content group is unlocked. Set
// semantics: repeating a call changes nothing. There is no removal path.
func (s *Store) AddSubscribedGroup(ctx context.Context, groupID any) error {
	key := groupKey(groupID)

	s.mu.Lock()
	if s.hasGroupLocked(key) {
		s.mu.Unlock()
		return nil
	}
	s.subscribedGroups = append(s.subscribedGroups, key)
	encoded := encodeGroups(s.subscribedGroups)
	s.mu.Unlock()

	if err := s.st.Set(ctx, storage.KeySubscribedGroups, encoded); err != nil {
		return fmt.Errorf("failed to persist subscribed groups: %w", err)
	}
	return nil
}

// IsSubscribed reports whether the group is unlocked; membership gates
// content access.
func (s *Store) IsSubscribed(groupID any) bool {
	key := groupKey(groupID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasGroupLocked(key)
}

func (s *Store) hasGroupLocked(key string) bool {
	for _, g := range s.subscribedGroups {
		if g == key {
			return true
		}
	}
	return false
}

// WalletBalance returns the cached balance. The server copy is the
// authority; this value tracks it through spends and cross-client events.
func (s *Store) WalletBalance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walletBalance
}

// SpendFromWallet pays for a content group from the wallet and unlocks it.
// The server confirms the payment first; only then is the balance
// decremented and the group added, with both writes persisted together.
// An amount exceeding the balance fails with ErrInsufficientFunds before
// any call is made.
func (s *Store) SpendFromWallet(ctx context.Context, amount float64, groupID any) error {
	if s.currentToken() == "" {
		return ErrNotAuthenticated
	}
	if amount < 0 {
		return fmt.Errorf("negative amount %v", amount)
	}

	key := groupKey(groupID)

	op := "spendFromWallet:" + key
	if !s.begin(op) {
		return ErrRequestInFlight
	}
	defer s.end(op)

	s.mu.RLock()
	balance := s.walletBalance
	s.mu.RUnlock()
	if amount > balance {
		return ErrInsufficientFunds
	}

	if err := s.api.PayLectures(ctx, key); err != nil {
		return fmt.Errorf("pay for group %s: %w", key, err)
	}

	s.mu.Lock()
	s.walletBalance -= amount
	if !s.hasGroupLocked(key) {
		s.subscribedGroups = append(s.subscribedGroups, key)
	}
	newBalance := s.walletBalance
	encoded := encodeGroups(s.subscribedGroups)
	s.mu.Unlock()

	err := s.st.SetMany(ctx, map[string]string{
		storage.KeyMoney:            formatMoney(newBalance),
		storage.KeySubscribedGroups: encoded,
	})
	if err != nil {
		return fmt.Errorf("failed to persist spend: %w", err)
	}
	return nil
}

func encodeGroups(groups []string) string {
	if groups == nil {
		groups = []string{}
	}
	b, _ := json.Marshal(groups)
	return string(b)
}
