package session

import "sync"

// ChangeKind says what happened to a session record.
type ChangeKind string

// Change kinds.
const (
	ChangeWrite ChangeKind = "write"
	ChangeClear ChangeKind = "clear"
)

// Change is emitted whenever a session record is written or cleared.
type Change struct {
	SessionID string     `json:"sid"`
	Key       string     `json:"key"`
	Kind      ChangeKind `json:"kind"`
}

const subscriberBuffer = 4

// Notifier fans session changes out to subscribers of a session id.
// Slow subscribers drop changes rather than block writers: any change
// means "re-read the store", so one pending notification is enough.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan Change
}

// NewNotifier returns a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[int]chan Change)}
}

// Subscribe returns a channel of changes for sid and a function that
// unsubscribes and closes it.
func (n *Notifier) Subscribe(sid string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan Change, subscriberBuffer)
	if n.subs[sid] == nil {
		n.subs[sid] = make(map[int]chan Change)
	}
	n.subs[sid][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[sid], id)
			if len(n.subs[sid]) == 0 {
				delete(n.subs, sid)
			}
			close(ch)
		})
	}
}

// Publish delivers c to every subscriber of c.SessionID.
func (n *Notifier) Publish(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[c.SessionID] {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribers returns how many subscribers sid has.
func (n *Notifier) Subscribers(sid string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[sid])
}
