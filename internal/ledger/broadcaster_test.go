package ledger

import (
	"testing"
)

func TestBroadcasterDeliversLatestSnapshot(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	b.Publish(Snapshot{Summary: Summary{TransactionCount: 1}})
	b.Publish(Snapshot{Summary: Summary{TransactionCount: 2}})

	snapshot := <-ch
	if snapshot.Summary.TransactionCount != 2 {
		t.Fatalf("expected latest snapshot, got count %d", snapshot.Summary.TransactionCount)
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Fatal("expected closed channel after unsubscribe")
	}
	if b.SubscriberCount() != 0 {
		t.Fatalf("expected zero subscribers, got %d", b.SubscriberCount())
	}

	// double unsubscribe is a no-op
	b.Unsubscribe(id)
}

func TestBroadcasterPublishNeverBlocks(t *testing.T) {
	b := NewBroadcaster()
	id, _ := b.Subscribe()
	defer b.Unsubscribe(id)

	for i := 0; i < 100; i++ {
		b.Publish(Snapshot{Summary: Summary{TransactionCount: i}})
	}
}
