package notifier

import (
	"sync"
	"time"
)

// ackKey identifies one pending acknowledgment: the same message delivered
// to two sessions is tracked twice.
type ackKey struct {
	messageID string
	sessionID string
}

// pendingAck is one delivery awaiting a client receipt.
type pendingAck struct {
	message       Message
	sessionID     string
	expiresAt     time.Time
	attemptsLeft  int
	nextAttemptAt time.Time
}

// ackTracker keeps the set of deliveries that still need an acknowledgment.
// Entries leave the set when acknowledged, when their ttl elapses, or when
// their retry budget is spent.
type ackTracker struct {
	mu      sync.Mutex
	pending map[ackKey]*pendingAck
}

func newAckTracker() *ackTracker {
	return &ackTracker{pending: make(map[ackKey]*pendingAck)}
}

func (t *ackTracker) track(message Message, sessionID string, now time.Time, ttl, retryInterval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[ackKey{messageID: message.MessageID, sessionID: sessionID}] = &pendingAck{
		message:       message,
		sessionID:     sessionID,
		expiresAt:     now.Add(ttl),
		attemptsLeft:  message.retryAttempts(),
		nextAttemptAt: now.Add(retryInterval),
	}
}

// resolve removes a pending entry. Returns false if nothing was tracked for
// the pair, which is normal for duplicate or late acks.
func (t *ackTracker) resolve(messageID, sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := ackKey{messageID: messageID, sessionID: sessionID}
	if _, ok := t.pending[key]; !ok {
		return false
	}
	delete(t.pending, key)
	return true
}

// dropSession removes every pending entry destined for a purged session.
func (t *ackTracker) dropSession(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.pending {
		if key.sessionID == sessionID {
			delete(t.pending, key)
		}
	}
}

// collectDue returns the deliveries to retry now and drops the ones that
// expired or ran out of attempts. Retried entries are rescheduled before
// being returned, so a slow resend never double-fires.
func (t *ackTracker) collectDue(now time.Time, retryInterval time.Duration) (resend, abandoned []pendingAck) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, entry := range t.pending {
		if !now.Before(entry.expiresAt) {
			abandoned = append(abandoned, *entry)
			delete(t.pending, key)
			continue
		}
		if now.Before(entry.nextAttemptAt) {
			continue
		}
		if entry.attemptsLeft <= 0 {
			abandoned = append(abandoned, *entry)
			delete(t.pending, key)
			continue
		}
		entry.attemptsLeft--
		entry.nextAttemptAt = now.Add(retryInterval)
		resend = append(resend, *entry)
	}
	return resend, abandoned
}

func (t *ackTracker) pendingCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
