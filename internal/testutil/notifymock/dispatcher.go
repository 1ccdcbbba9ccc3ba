package notifymock

import (
	"context"
	"sync"

	domain "mouthpiece-market/internal/domain/notification"
)

var _ domain.Dispatcher = (*Dispatcher)(nil)

// Sent is one recorded Notify call.
type Sent struct {
	RecipientID string
	SenderID    string
	Message     string
	ListingID   string
}

// Dispatcher records every Notify call; set Err to simulate delivery failure.
type Dispatcher struct {
	mu   sync.Mutex
	sent []Sent
	Err  error
}

func (d *Dispatcher) Notify(ctx context.Context, recipientID, senderID, message, listingID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.sent = append(d.sent, Sent{RecipientID: recipientID, SenderID: senderID, Message: message, ListingID: listingID})
	return nil
}

func (d *Dispatcher) SentTo(recipientID string) []Sent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Sent
	for _, s := range d.sent {
		if s.RecipientID == recipientID {
			out = append(out, s)
		}
	}
	return out
}

func (d *Dispatcher) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}
