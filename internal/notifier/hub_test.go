package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
	"dispatch/internal/pkg/errs"
)

// fakeTransport records sent messages and can be told to fail.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []Message
	closed  bool
	sendErr error
}

func (f *fakeTransport) Send(message Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) sentMessages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := make([]Message, len(f.sent))
	copy(messages, f.sent)
	return messages
}

func (f *fakeTransport) lastMessage() (Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return Message{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// fakeValidator resolves any credential to a fixed staff member.
type fakeValidator struct {
	staffID kernel.UUID
	role    staff.Role
	err     error
}

func (f *fakeValidator) Validate(_ context.Context, _, _ string) (kernel.UUID, staff.Role, error) {
	if f.err != nil {
		return kernel.UUID{}, staff.RoleUnknown, f.err
	}
	return f.staffID, f.role, nil
}

func newTestHub(t *testing.T, validator CredentialValidator) *Hub {
	t.Helper()
	hub, err := NewHub(validator, 30*time.Second, 90*time.Second, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return hub
}

func registerAuthenticated(t *testing.T, hub *Hub, transport *fakeTransport) string {
	t.Helper()
	sessionID, err := hub.Register(transport)
	require.NoError(t, err)
	require.NoError(t, hub.Authenticate(context.Background(), sessionID, "token", ""))
	return sessionID
}

func Test_NewHub_RequiresDependencies(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	validator := &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen}

	_, err := NewHub(nil, time.Second, time.Second, logger)
	assert.Error(t, err)

	_, err = NewHub(validator, 0, time.Second, logger)
	assert.Error(t, err)

	_, err = NewHub(validator, time.Second, 0, logger)
	assert.Error(t, err)

	_, err = NewHub(validator, time.Second, time.Second, nil)
	assert.Error(t, err)
}

func Test_Hub_Register_StartsUnauthenticated(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})

	sessionID, err := hub.Register(&fakeTransport{})
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, 1, hub.ConnectedSessions())
	assert.Empty(t, hub.AuthenticatedByRole())
}

func Test_Hub_Register_RejectsNilTransport(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})

	_, err := hub.Register(nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func Test_Hub_Authenticate_BindsRoleAndSendsWelcome(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleService})
	transport := &fakeTransport{}

	sessionID, err := hub.Register(transport)
	require.NoError(t, err)
	require.NoError(t, hub.Authenticate(context.Background(), sessionID, "token", ""))

	assert.Equal(t, map[string]int{"SERVICE": 1}, hub.AuthenticatedByRole())

	welcome, ok := transport.lastMessage()
	require.True(t, ok)
	assert.Equal(t, TypeWelcome, welcome.Type)
	assert.Equal(t, staffID.String(), welcome.TargetStaffID)
}

func Test_Hub_Authenticate_ExactlyOncePerSession(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})
	transport := &fakeTransport{}

	sessionID, err := hub.Register(transport)
	require.NoError(t, err)
	require.NoError(t, hub.Authenticate(context.Background(), sessionID, "token", ""))

	err = hub.Authenticate(context.Background(), sessionID, "token", "")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func Test_Hub_Authenticate_UnknownSession(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})

	err := hub.Authenticate(context.Background(), "no-such-session", "token", "")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func Test_Hub_Authenticate_InvalidCredential(t *testing.T) {
	credentialErr := errors.New("credential rejected")
	hub := newTestHub(t, &fakeValidator{err: credentialErr})
	transport := &fakeTransport{}

	sessionID, err := hub.Register(transport)
	require.NoError(t, err)

	err = hub.Authenticate(context.Background(), sessionID, "bad-token", "")
	assert.ErrorIs(t, err, credentialErr)
	assert.Empty(t, hub.AuthenticatedByRole())
}

func Test_Hub_SendToStaff_ReachesEveryDevice(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})

	phone := &fakeTransport{}
	tablet := &fakeTransport{}
	registerAuthenticated(t, hub, phone)
	registerAuthenticated(t, hub, tablet)

	message := NewMessage(TypeOrderAssigned, kernel.PriorityHigh)
	delivered, err := hub.SendToStaff(staffID, message)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	last, ok := phone.lastMessage()
	require.True(t, ok)
	assert.Equal(t, staffID.String(), last.TargetStaffID)
}

func Test_Hub_SendToStaff_NotConnected(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})

	_, err := hub.SendToStaff(kernel.NewUUID(), NewMessage(TypeOrderAssigned, kernel.PriorityNormal))
	assert.ErrorIs(t, err, ErrStaffNotConnected)
}

func Test_Hub_SendToStaff_SkipsUnauthenticatedSessions(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})

	_, err := hub.Register(&fakeTransport{})
	require.NoError(t, err)

	_, err = hub.SendToStaff(staffID, NewMessage(TypeOrderAssigned, kernel.PriorityNormal))
	assert.ErrorIs(t, err, ErrStaffNotConnected)
}

func Test_Hub_BroadcastToRole_OnlyMatchingRole(t *testing.T) {
	kitchenID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: kitchenID, role: staff.RoleKitchen})
	kitchen := &fakeTransport{}
	registerAuthenticated(t, hub, kitchen)

	// Rebind the validator so the next session authenticates as service staff.
	hub.validator = &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleService}
	service := &fakeTransport{}
	registerAuthenticated(t, hub, service)

	delivered := hub.BroadcastToRole(staff.RoleKitchen, NewMessage(TypeOrderCreated, kernel.PriorityNormal))
	assert.Equal(t, 1, delivered)

	last, ok := kitchen.lastMessage()
	require.True(t, ok)
	assert.Equal(t, "KITCHEN", last.TargetRole)

	serviceLast, ok := service.lastMessage()
	require.True(t, ok)
	assert.Equal(t, TypeWelcome, serviceLast.Type)
}

func Test_Hub_Broadcast_FailedSessionIsPurgedOthersStillDelivered(t *testing.T) {
	hub := newTestHub(t, &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen})

	healthy := &fakeTransport{}
	registerAuthenticated(t, hub, healthy)

	hub.validator = &fakeValidator{staffID: kernel.NewUUID(), role: staff.RoleKitchen}
	broken := &fakeTransport{}
	registerAuthenticated(t, hub, broken)
	broken.sendErr = errors.New("connection reset")

	delivered := hub.BroadcastAll(NewMessage(TypeOrderCreated, kernel.PriorityNormal))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, hub.ConnectedSessions())
	assert.True(t, broken.closed)
}

func Test_Hub_AckTracking_ResolvedByAck(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	sessionID := registerAuthenticated(t, hub, transport)

	message := NewMessage(TypeOrderEscalated, kernel.PriorityUrgent).WithAck(120)
	_, err := hub.SendToStaff(staffID, message)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.PendingAcks())

	assert.True(t, hub.Ack(sessionID, message.MessageID))
	assert.Equal(t, 0, hub.PendingAcks())

	// A duplicate ack is harmless.
	assert.False(t, hub.Ack(sessionID, message.MessageID))
}

func Test_Hub_AckSweep_RedeliversUntilBudgetSpent(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	registerAuthenticated(t, hub, transport)

	// LOW priority gets a single redelivery attempt.
	message := NewMessage(TypeOrderCreated, kernel.PriorityLow).WithAck(3600)
	_, err := hub.SendToStaff(staffID, message)
	require.NoError(t, err)

	base := time.Now().UTC()
	hub.now = func() time.Time { return base.Add(ackRetryInterval + time.Second) }
	hub.ackSweep()
	assert.Equal(t, 1, hub.PendingAcks())

	hub.now = func() time.Time { return base.Add(2 * (ackRetryInterval + time.Second)) }
	hub.ackSweep()
	assert.Equal(t, 0, hub.PendingAcks())

	// welcome + initial + one redelivery
	assert.Len(t, transport.sentMessages(), 3)
}

func Test_Hub_AckSweep_UrgentGetsMoreAttempts(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleManager})
	transport := &fakeTransport{}
	registerAuthenticated(t, hub, transport)

	message := NewMessage(TypeOrderEscalated, kernel.PriorityUrgent).WithAck(3600)
	_, err := hub.SendToStaff(staffID, message)
	require.NoError(t, err)

	base := time.Now().UTC()
	for sweep := 1; sweep <= 5; sweep++ {
		hub.now = func() time.Time {
			return base.Add(time.Duration(sweep) * (ackRetryInterval + time.Second))
		}
		hub.ackSweep()
		assert.Equal(t, 1, hub.PendingAcks(), "sweep %d should keep tracking", sweep)
	}

	hub.now = func() time.Time { return base.Add(6 * (ackRetryInterval + time.Second)) }
	hub.ackSweep()
	assert.Equal(t, 0, hub.PendingAcks())

	// welcome + initial + five redeliveries
	assert.Len(t, transport.sentMessages(), 7)
}

func Test_Hub_AckSweep_TTLExpiryAbandonsDelivery(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	registerAuthenticated(t, hub, transport)

	message := NewMessage(TypeOrderEscalated, kernel.PriorityUrgent).WithAck(1)
	_, err := hub.SendToStaff(staffID, message)
	require.NoError(t, err)

	hub.now = func() time.Time { return time.Now().UTC().Add(2 * time.Second) }
	hub.ackSweep()
	assert.Equal(t, 0, hub.PendingAcks())

	// welcome + initial only, no redelivery past the ttl
	assert.Len(t, transport.sentMessages(), 2)
}

func Test_Hub_CleanupSweep_PurgesSilentSessions(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	sessionID := registerAuthenticated(t, hub, transport)

	hub.now = func() time.Time { return time.Now().UTC().Add(2 * 90 * time.Second) }
	hub.cleanupSweep()

	assert.Equal(t, 0, hub.ConnectedSessions())
	assert.Empty(t, hub.AuthenticatedByRole())
	assert.True(t, transport.closed)

	// Acks for the purged session are gone too.
	assert.False(t, hub.Ack(sessionID, "any"))
}

func Test_Hub_CleanupSweep_TouchKeepsSessionAlive(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	sessionID := registerAuthenticated(t, hub, transport)

	later := time.Now().UTC().Add(80 * time.Second)
	hub.now = func() time.Time { return later }
	hub.Touch(sessionID)

	hub.now = func() time.Time { return later.Add(80 * time.Second) }
	hub.cleanupSweep()

	assert.Equal(t, 1, hub.ConnectedSessions())
}

func Test_Hub_HeartbeatSweep_ReachesAuthenticatedOnly(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})

	authenticated := &fakeTransport{}
	registerAuthenticated(t, hub, authenticated)

	anonymous := &fakeTransport{}
	_, err := hub.Register(anonymous)
	require.NoError(t, err)

	hub.heartbeatSweep()

	last, ok := authenticated.lastMessage()
	require.True(t, ok)
	assert.Equal(t, TypeHeartbeat, last.Type)
	assert.Empty(t, anonymous.sentMessages())
}

func Test_Hub_StartStop(t *testing.T) {
	staffID := kernel.NewUUID()
	hub := newTestHub(t, &fakeValidator{staffID: staffID, role: staff.RoleKitchen})
	transport := &fakeTransport{}
	registerAuthenticated(t, hub, transport)

	require.NoError(t, hub.Start())
	assert.ErrorIs(t, hub.Start(), ErrHubAlreadyStarted)

	hub.Stop()
	assert.Equal(t, 0, hub.ConnectedSessions())
	assert.True(t, transport.closed)

	// A second Stop is a no-op.
	hub.Stop()
}

func Test_Message_RetryAttemptsByPriority(t *testing.T) {
	tests := []struct {
		priority kernel.Priority
		attempts int
	}{
		{kernel.PriorityLow, 1},
		{kernel.PriorityNormal, 2},
		{kernel.PriorityHigh, 3},
		{kernel.PriorityUrgent, 5},
		{kernel.PriorityEmergency, 5},
	}

	for _, test := range tests {
		t.Run(test.priority.String(), func(t *testing.T) {
			message := NewMessage(TypeOrderCreated, test.priority)
			assert.Equal(t, test.attempts, message.retryAttempts())
		})
	}
}

func Test_Message_Builders(t *testing.T) {
	source := kernel.NewUUID()
	message := NewMessage(TypeOrderStatusChanged, kernel.PriorityHigh).
		WithData(map[string]any{"orderId": "o-1"}).
		WithText("Order ready", "Order o-1 is ready for pickup").
		WithAck(30).
		WithCorrelation("corr-1").
		WithSource(source)

	assert.NotEmpty(t, message.MessageID)
	assert.Equal(t, "HIGH", message.Priority)
	assert.Equal(t, "o-1", message.Data["orderId"])
	assert.Equal(t, "Order ready", message.Title)
	assert.True(t, message.RequiresAcknowledgment)
	assert.Equal(t, 30, message.TTLSeconds)
	assert.Equal(t, "corr-1", message.CorrelationID)
	assert.Equal(t, source.String(), message.SourceStaffID)
}
