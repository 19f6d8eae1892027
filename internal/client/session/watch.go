package session

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/eduline/studyshop/internal/client/storage"
)

// StartWatch subscribes the store to external storage changes (another
// client writing the shared database) until ctx is done. Register it once,
// right after Initialize.
func (s *Store) StartWatch(ctx context.Context) error {
	return s.st.Watch(ctx, func(ev storage.Event) {
		s.applyStorageEvent(ctx, ev)
	})
}

// applyStorageEvent merges one external change into memory. Malformed
// payloads keep the previous value, except money, which falls back to 0
// the way a failed numeric parse always has.
func (s *Store) applyStorageEvent(ctx context.Context, ev storage.Event) {
	switch ev.Key {
	case storage.KeyMoney:
		v, err := strconv.ParseFloat(ev.New, 64)
		if err != nil {
			v = 0
		}
		s.mu.Lock()
		s.walletBalance = v
		s.mu.Unlock()
		s.log.Debug(ctx, "wallet balance reconciled from storage", "balance", v)

	case storage.KeySubscribedGroups:
		var groups []string
		if err := json.Unmarshal([]byte(ev.New), &groups); err != nil {
			return
		}
		s.mu.Lock()
		s.subscribedGroups = groups
		s.mu.Unlock()
		s.log.Debug(ctx, "subscribed groups reconciled from storage", "count", len(groups))

	case storage.KeyUserName:
		s.mu.Lock()
		s.userName = ev.New
		s.mu.Unlock()
	}
}
