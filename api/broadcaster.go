package api

import "sync"

// EventType identifies the kind of message pushed to WebSocket clients.
type EventType string

const (
	EventTypeState     EventType = "state"
	EventTypeOutput    EventType = "output"
	EventTypeExecution EventType = "execution"
)

// BroadcastEvent is one message sent to every subscribed client.
type BroadcastEvent struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// Subscription is a single client's feed of broadcast events.
type Subscription struct {
	Channel chan BroadcastEvent
}

// Broadcaster fans state/output/execution events out to every connected
// WebSocket client. There is exactly one machine per server process, so
// subscriptions are never filtered by session.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new client feed.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{Channel: make(chan BroadcastEvent, 64)}
	b.register <- sub
	return sub
}

// Unsubscribe removes a client feed and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast sends an event to every subscribed client, dropping it if the
// broadcaster's internal queue is saturated rather than blocking the caller.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastState sends a StateEvent.
func (b *Broadcaster) BroadcastState(ev StateEvent) {
	b.Broadcast(BroadcastEvent{Type: EventTypeState, Data: ev})
}

// BroadcastOutput sends a chunk of program output.
func (b *Broadcaster) BroadcastOutput(content string) {
	b.Broadcast(BroadcastEvent{Type: EventTypeOutput, Data: OutputEvent{Content: content}})
}

// BroadcastExecution sends a one-shot notification that a run stopped for
// a reason worth surfacing on its own, distinct from the routine
// StateEvent pushed on every state change.
func (b *Broadcaster) BroadcastExecution(ev ExecutionEvent) {
	b.Broadcast(BroadcastEvent{Type: EventTypeExecution, Data: ev})
}

// Close shuts down the broadcaster and all client subscriptions.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount reports the number of connected clients.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
