package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vyapaari/collect-backend/pkg/db/models"
)

// snapshotRecentLimit caps how many rows ride along with each snapshot.
const snapshotRecentLimit = 20

// Snapshot is the full ledger view pushed to subscribers after every change.
type Snapshot struct {
	Recent  []models.Transaction `json:"recent"`
	Summary Summary              `json:"summary"`
}

// Broadcaster fans ledger snapshots out to in-process subscribers. Each
// subscriber holds a buffered channel of size one; a slow consumer gets the
// latest snapshot, never a backlog.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan Snapshot
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]chan Snapshot)}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The channel is closed on Unsubscribe.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	ch := make(chan Snapshot, 1)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish replaces any undelivered snapshot with the new one for every
// subscriber. Publish never blocks.
func (b *Broadcaster) Publish(snapshot Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are attached.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
