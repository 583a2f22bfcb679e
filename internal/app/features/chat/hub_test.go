package chat_test

import (
	"testing"
	"time"

	"github.com/dalemusser/classmentor/internal/app/features/chat"
)

func TestHub_BroadcastReachesRoomSubscribersOnly(t *testing.T) {
	hub := chat.NewHub()

	a := hub.Subscribe("room1")
	b := hub.Subscribe("room1")
	other := hub.Subscribe("room2")
	defer hub.Unsubscribe("room1", a)
	defer hub.Unsubscribe("room1", b)
	defer hub.Unsubscribe("room2", other)

	hub.Broadcast("room1", []byte("hello"))

	for _, sub := range []*chat.Subscription{a, b} {
		select {
		case got := <-sub.C:
			if string(got) != "hello" {
				t.Errorf("payload: got %q", got)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive broadcast")
		}
	}

	select {
	case got := <-other.C:
		t.Errorf("room2 subscriber received room1 broadcast: %q", got)
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := chat.NewHub()

	sub := hub.Subscribe("room1")
	hub.Unsubscribe("room1", sub)

	if _, open := <-sub.C; open {
		t.Error("channel should be closed after Unsubscribe")
	}
	if n := hub.SubscriberCount("room1"); n != 0 {
		t.Errorf("subscriber count: got %d, want 0", n)
	}

	// A second Unsubscribe is a no-op, not a panic.
	hub.Unsubscribe("room1", sub)
}

func TestHub_SlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	hub := chat.NewHub()

	slow := hub.Subscribe("room1")
	defer hub.Unsubscribe("room1", slow)

	done := make(chan struct{})
	go func() {
		// More broadcasts than the channel buffers; must not block.
		for i := 0; i < 100; i++ {
			hub.Broadcast("room1", []byte("snapshot"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}
