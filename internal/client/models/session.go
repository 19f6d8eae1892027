// Package models defines the data types shared between the session store,
// the API client, and the CLI.
package models

// Identity is the result of a successful authentication exchange, as
// committed into the session store. The store itself never performs the
// exchange; the login flow does and hands the result over.
type Identity struct {
	UserName      string
	PhoneNumber   string
	Token         string
	WalletBalance float64
	StudentID     string
}

// Session is a point-in-time snapshot of the client session state. The
// store hands out copies, so readers never observe a half-applied mutation.
type Session struct {
	UserName         string
	PhoneNumber      string
	Token            string
	WalletBalance    float64
	SubscribedGroups []string
	CartItems        []CartItem
	CartCount        int
	CartTotal        float64
	DeliveryFees     float64
	LoadingIdentity  bool
}

// LoggedIn reports whether the snapshot carries a token.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}
