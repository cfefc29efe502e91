package notify

import (
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, ch1 := hub.Subscribe()
	_, ch2 := hub.Subscribe()

	hub.Publish(TranscodeReady("Movie A"))

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != TypeTranscodeReady {
				t.Errorf("subscriber %d: expected type %q, got %q", i, TypeTranscodeReady, ev.Type)
			}
			if ev.Data.Title != "Movie A" {
				t.Errorf("subscriber %d: expected title Movie A, got %q", i, ev.Data.Title)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the event", i)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	id, ch := hub.Subscribe()
	hub.Unsubscribe(id)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got event")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic or deliver.
	hub.Publish(TranscodeReady("Movie A"))
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	// Never drained; its buffer fills and further events drop.
	hub.Subscribe()
	_, healthy := hub.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(TranscodeReady("Movie A"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// The healthy subscriber still got a full buffer.
	received := 0
	for {
		select {
		case <-healthy:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Errorf("expected %d buffered events, got %d", subscriberBuffer, received)
	}
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	hub := NewHub()

	_, ch := hub.Subscribe()
	hub.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after hub close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after hub close")
	}

	// Post-close operations are no-ops.
	hub.Publish(TranscodeReady("Movie A"))
	_, late := hub.Subscribe()
	if _, ok := <-late; ok {
		t.Error("expected immediately closed channel from post-close subscribe")
	}
}
