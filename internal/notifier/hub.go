package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/pkg/errs"
)

// ErrStaffNotConnected is returned by direct delivery when the target staff
// member has no authenticated session.
var ErrStaffNotConnected = errors.New("staff member has no connected session")

// ErrHubAlreadyStarted is returned when Start is called twice.
var ErrHubAlreadyStarted = errors.New("hub is already started")

const (
	defaultAckTTL    = time.Minute
	ackRetryInterval = 10 * time.Second
)

// CredentialValidator checks a bearer credential against the active-session
// registry and resolves the staff member behind it. Credential issuance and
// storage live outside this core.
type CredentialValidator interface {
	Validate(ctx context.Context, credential, staffIDHint string) (kernel.UUID, staff.Role, error)
}

// Hub is the notification fan-out point. It owns the registry of live client
// sessions and delivers messages to one staff member, to a role, or to
// everyone, tracking acknowledgments for messages that require one.
//
// A failed send to one session purges that session and never aborts delivery
// to the others; fan-out operations report how many sessions were reached.
type Hub struct {
	validator CredentialValidator
	logger    *slog.Logger
	now       func() time.Time

	heartbeatInterval time.Duration
	sessionTimeout    time.Duration

	mu         sync.RWMutex
	sessions   map[string]*session
	roleCounts map[staff.Role]int

	acks *ackTracker

	startMu  sync.Mutex
	started  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewHub creates a Hub. heartbeatInterval drives the keepalive push to all
// authenticated sessions; sessionTimeout is how long a session may stay
// silent before the cleanup sweep purges it.
func NewHub(
	validator CredentialValidator,
	heartbeatInterval time.Duration,
	sessionTimeout time.Duration,
	logger *slog.Logger,
) (*Hub, error) {
	if validator == nil {
		return nil, errs.NewValueIsRequiredError("validator")
	}
	if heartbeatInterval <= 0 {
		return nil, errs.NewValueIsInvalidError("heartbeatInterval")
	}
	if sessionTimeout <= 0 {
		return nil, errs.NewValueIsInvalidError("sessionTimeout")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Hub{
		validator:         validator,
		logger:            logger.With("component", "notification_hub"),
		now:               time.Now,
		heartbeatInterval: heartbeatInterval,
		sessionTimeout:    sessionTimeout,
		sessions:          make(map[string]*session),
		roleCounts:        make(map[staff.Role]int),
		acks:              newAckTracker(),
		stopChan:          make(chan struct{}),
	}, nil
}

// Register adds a freshly connected transport as an unauthenticated session
// and returns the session id.
func (h *Hub) Register(transport Transport) (string, error) {
	if transport == nil {
		return "", errs.NewValueIsRequiredError("transport")
	}

	now := h.now().UTC()
	sess := &session{
		id:           kernel.NewUUID().String(),
		transport:    transport,
		connectedAt:  now,
		lastActivity: now,
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.mu.Unlock()

	h.logger.Debug("session registered", "sessionId", sess.id)
	return sess.id, nil
}

// Authenticate validates the client's credential, binds the session to the
// resolved staff member and role, and delivers the welcome message.
//
// A session authenticates at most once: a second attempt is rejected with a
// conflict error no matter what credential it carries.
func (h *Hub) Authenticate(ctx context.Context, sessionID, credential, staffIDHint string) error {
	h.mu.RLock()
	sess, ok := h.sessions[sessionID]
	alreadyAuthenticated := ok && sess.authenticated
	h.mu.RUnlock()

	if !ok {
		return errs.NewObjectNotFoundError("sessionId", sessionID)
	}
	if alreadyAuthenticated {
		return errs.NewConflictError("session", "authenticated", "authenticate")
	}

	staffID, role, err := h.validator.Validate(ctx, credential, staffIDHint)
	if err != nil {
		return err
	}

	h.mu.Lock()
	sess, ok = h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return errs.NewObjectNotFoundError("sessionId", sessionID)
	}
	if sess.authenticated {
		h.mu.Unlock()
		return errs.NewConflictError("session", "authenticated", "authenticate")
	}
	sess.staffID = staffID
	sess.role = role
	sess.authenticated = true
	sess.lastActivity = h.now().UTC()
	h.roleCounts[role]++
	transport := sess.transport
	h.mu.Unlock()

	h.logger.Info("session authenticated",
		"sessionId", sessionID, "staffId", staffID.String(), "role", role.String())

	welcome := NewMessage(TypeWelcome, kernel.PriorityNormal).WithData(map[string]any{
		"sessionId": sessionID,
		"staffId":   staffID.String(),
		"role":      role.String(),
	})
	welcome.TargetStaffID = staffID.String()
	if err := transport.Send(welcome); err != nil {
		h.purge(sessionID, "welcome delivery failed")
	}
	return nil
}

// Touch records inbound activity on a session, deferring its cleanup.
func (h *Hub) Touch(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sess, ok := h.sessions[sessionID]; ok {
		sess.lastActivity = h.now().UTC()
	}
}

// Ack resolves a pending acknowledgment for the given message on the given
// session. Duplicate and late acks return false and are otherwise harmless.
func (h *Hub) Ack(sessionID, messageID string) bool {
	h.Touch(sessionID)
	return h.acks.resolve(messageID, sessionID)
}

// Disconnect purges a session after the client side went away.
func (h *Hub) Disconnect(sessionID string) {
	h.purge(sessionID, "client disconnected")
}

// SendToStaff delivers the message to every authenticated session of the
// staff member (multi-device). Returns the number of sessions reached, or
// ErrStaffNotConnected if there were none.
func (h *Hub) SendToStaff(staffID kernel.UUID, message Message) (int, error) {
	message.TargetStaffID = staffID.String()

	h.mu.RLock()
	targets := make([]*session, 0, 1)
	for _, sess := range h.sessions {
		if sess.isFor(staffID) {
			targets = append(targets, sess)
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return 0, ErrStaffNotConnected
	}
	return h.fanOut(targets, message), nil
}

// BroadcastToRole delivers the message to every authenticated session bound
// to the given role and returns the number of sessions reached.
func (h *Hub) BroadcastToRole(role staff.Role, message Message) int {
	message.TargetRole = role.String()

	h.mu.RLock()
	targets := make([]*session, 0)
	for _, sess := range h.sessions {
		if sess.authenticated && sess.role == role {
			targets = append(targets, sess)
		}
	}
	h.mu.RUnlock()

	return h.fanOut(targets, message)
}

// BroadcastAll delivers the message to every authenticated session and
// returns the number of sessions reached.
func (h *Hub) BroadcastAll(message Message) int {
	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		if sess.authenticated {
			targets = append(targets, sess)
		}
	}
	h.mu.RUnlock()

	return h.fanOut(targets, message)
}

// ConnectedSessions returns the number of live sessions, authenticated or not.
func (h *Hub) ConnectedSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// AuthenticatedByRole returns the per-role counters of authenticated sessions.
func (h *Hub) AuthenticatedByRole() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make(map[string]int, len(h.roleCounts))
	for role, count := range h.roleCounts {
		if count > 0 {
			counts[role.String()] = count
		}
	}
	return counts
}

// Sessions returns a read-only snapshot of all live sessions.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(h.sessions))
	for _, sess := range h.sessions {
		infos = append(infos, sess.info())
	}
	return infos
}

// PendingAcks returns the number of deliveries still awaiting a receipt.
func (h *Hub) PendingAcks() int {
	return h.acks.pendingCount()
}

// Start launches the heartbeat, cleanup, and acknowledgment-retry loops.
func (h *Hub) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return ErrHubAlreadyStarted
	}
	h.started = true

	h.wg.Add(1)
	go h.run()

	h.logger.Info("hub started",
		"heartbeatInterval", h.heartbeatInterval, "sessionTimeout", h.sessionTimeout)
	return nil
}

// Stop halts the background loops and closes every live session.
func (h *Hub) Stop() {
	h.startMu.Lock()
	if !h.started {
		h.startMu.Unlock()
		return
	}
	h.started = false
	close(h.stopChan)
	h.startMu.Unlock()

	h.wg.Wait()

	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.roleCounts = make(map[staff.Role]int)
	h.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.transport.Close()
	}
	h.logger.Info("hub stopped", "closedSessions", len(sessions))
}

func (h *Hub) run() {
	defer h.wg.Done()

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	cleanupEvery := h.sessionTimeout / 2
	if cleanupEvery < time.Second {
		cleanupEvery = time.Second
	}
	cleanup := time.NewTicker(cleanupEvery)
	defer cleanup.Stop()

	retry := time.NewTicker(ackRetryInterval)
	defer retry.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case <-heartbeat.C:
			h.heartbeatSweep()
		case <-cleanup.C:
			h.cleanupSweep()
		case <-retry.C:
			h.ackSweep()
		}
	}
}

// fanOut sends the message to every target. A failed send purges that one
// session; remaining targets still get the message.
func (h *Hub) fanOut(targets []*session, message Message) int {
	delivered := 0
	for _, sess := range targets {
		if err := sess.transport.Send(message); err != nil {
			h.logger.Warn("delivery failed, purging session",
				"sessionId", sess.id, "messageId", message.MessageID, "error", err)
			h.purge(sess.id, "delivery failed")
			continue
		}
		delivered++

		if message.RequiresAcknowledgment {
			ttl := defaultAckTTL
			if message.TTLSeconds > 0 {
				ttl = time.Duration(message.TTLSeconds) * time.Second
			}
			h.acks.track(message, sess.id, h.now().UTC(), ttl, ackRetryInterval)
		}
	}
	return delivered
}

// heartbeatSweep pushes a keepalive to every authenticated session.
func (h *Hub) heartbeatSweep() {
	h.BroadcastAll(NewMessage(TypeHeartbeat, kernel.PriorityLow))
}

// cleanupSweep purges sessions with no observed activity past the timeout.
func (h *Hub) cleanupSweep() {
	deadline := h.now().UTC().Add(-h.sessionTimeout)

	h.mu.RLock()
	stale := make([]string, 0)
	for id, sess := range h.sessions {
		if sess.lastActivity.Before(deadline) {
			stale = append(stale, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stale {
		h.purge(id, "activity timeout")
	}
}

// ackSweep redelivers unacknowledged messages and abandons the ones whose
// ttl or retry budget ran out.
func (h *Hub) ackSweep() {
	resend, abandoned := h.acks.collectDue(h.now().UTC(), ackRetryInterval)

	for _, entry := range abandoned {
		h.logger.Warn("notification never acknowledged",
			"messageId", entry.message.MessageID, "sessionId", entry.sessionID)
	}

	for _, entry := range resend {
		h.mu.RLock()
		sess, ok := h.sessions[entry.sessionID]
		h.mu.RUnlock()

		if !ok {
			h.acks.resolve(entry.message.MessageID, entry.sessionID)
			continue
		}
		if err := sess.transport.Send(entry.message); err != nil {
			h.logger.Warn("redelivery failed, purging session",
				"sessionId", entry.sessionID, "messageId", entry.message.MessageID, "error", err)
			h.purge(entry.sessionID, "redelivery failed")
		}
	}
}

// purge removes a session, closes its transport, and drops its pending acks.
func (h *Hub) purge(sessionID, reason string) {
	h.mu.Lock()
	sess, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, sessionID)
	if sess.authenticated {
		h.roleCounts[sess.role]--
		if h.roleCounts[sess.role] <= 0 {
			delete(h.roleCounts, sess.role)
		}
	}
	h.mu.Unlock()

	_ = sess.transport.Close()
	h.acks.dropSession(sessionID)
	h.logger.Info("session purged", "sessionId", sessionID, "reason", reason)
}
