package auth

import (
	"context"
	"sync"
)

// ContextIdentity reads the authenticated user from the context populated by
// Middleware. It is the identity source for request-scoped work.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (string, bool) {
	claims := GetUser(ctx)
	if claims == nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// Event signals a change of the authenticated user.
type Event int

const (
	EventLogin Event = iota
	EventLogout
)

// Notifier fans auth state changes out to subscribers. The caches subscribe
// so a logout drops everything that was loaded for the previous user.
type Notifier struct {
	mu   sync.Mutex
	subs []func(Event, string)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers fn for future events. Subscriptions are permanent;
// subscribers live as long as the process.
func (n *Notifier) Subscribe(fn func(event Event, userID string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

func (n *Notifier) Notify(event Event, userID string) {
	n.mu.Lock()
	subs := make([]func(Event, string), len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()
	for _, fn := range subs {
		fn(event, userID)
	}
}
