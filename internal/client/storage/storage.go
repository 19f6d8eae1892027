// Package storage provides the durable key-value storage backing the
// session store, plus change notifications so one client can pick up
// writes made by another one sharing the same database (the cross-tab
// case).
package storage

import "context"

// Keys used by the session store. Values are strings; money is a
// decimal-as-string, subscribedGroups a JSON array of strings.
const (
	KeyToken            = "token"
	KeyUserName         = "userName"
	KeyPhoneNumber      = "phoneNumber"
	KeyMoney            = "money"
	KeySubscribedGroups = "subscribedGroups"
)

// Legacy keys written by older client versions. Logout removes them too.
const (
	KeyLegacyWalletBalance = "wallet_balance"
	KeyStudentID           = "studentId"
	KeyStudentDataComplete = "studentDataComplete"
)

// SessionKeys lists every key a logout must remove.
func SessionKeys() []string {
	return []string{
		KeyToken,
		KeyUserName,
		KeyPhoneNumber,
		KeyMoney,
		KeySubscribedGroups,
		KeyLegacyWalletBalance,
		KeyStudentID,
		KeyStudentDataComplete,
	}
}

// Event describes one key changed by another writer. Empty strings stand
// for "absent" on either side.
type Event struct {
	Key string
	Old string
	New string
}

// WatchFunc receives change events. It runs on the watcher's goroutine and
// must not block.
type WatchFunc func(Event)

// Storage is durable per-profile key-value storage. Get returns "" for a
// missing key; the session store treats absent and empty alike.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes several keys atomically.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	// DeleteMany removes several keys atomically. Missing keys are fine.
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)

	// Watch starts delivering external-change events to fn until ctx is
	// done. Changes made through this same Storage handle are not
	// reported.
	Watch(ctx context.Context, fn WatchFunc) error

	Close() error
}
