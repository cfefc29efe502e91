package notify

import (
	"sync"

	"github.com/google/uuid"

	"vod-server/internal/logging"
	"vod-server/internal/metrics"
)

// TypeTranscodeReady is published when a conversion becomes servable.
const TypeTranscodeReady = "transcode:ready"

// Payload carries the event-specific data of a notification.
type Payload struct {
	Title string `json:"title"`
}

// Event is a notification delivered to all subscribers.
type Event struct {
	Type string  `json:"type"`
	Data Payload `json:"data"`
}

// subscriberBuffer is the per-subscriber queue depth. A subscriber that
// falls further behind loses events rather than blocking the publisher.
const subscriberBuffer = 16

// Hub fans notifications out to subscribers. Publishing never blocks:
// delivery to each subscriber is a non-blocking send into its buffered
// channel, and overflow is counted and dropped.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]chan Event
	closed      bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]chan Event),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
// The channel is closed by Unsubscribe or Close, never by the caller.
func (h *Hub) Subscribe() (uuid.UUID, <-chan Event) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return id, ch
	}
	h.subscribers[id] = ch
	count := len(h.subscribers)
	h.mu.Unlock()

	metrics.NotificationSubscribers.Set(float64(count))
	logging.Debug("Notification subscriber %s registered (%d total)", id, count)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids
// are ignored.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		close(ch)
		metrics.NotificationSubscribers.Set(float64(count))
		logging.Debug("Notification subscriber %s removed (%d total)", id, count)
	}
}

// Publish delivers event to every current subscriber without blocking.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	metrics.NotificationsPublishedTotal.Inc()
	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			metrics.NotificationsDroppedTotal.Inc()
			logging.Warn("Dropping %s notification for slow subscriber %s", event.Type, id)
		}
	}
}

// Close shuts the hub down, closing every subscriber channel. Publish and
// Subscribe become no-ops afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
	metrics.NotificationSubscribers.Set(0)
}

// SubscriberCount reports the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// TranscodeReady builds the notification published when a job's
// conversion finishes and verifies.
func TranscodeReady(title string) Event {
	return Event{Type: TypeTranscodeReady, Data: Payload{Title: title}}
}
