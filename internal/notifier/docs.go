// Package notifier implements the real-time notification fan-out hub.
//
// The hub owns the registry of live client sessions. A transport connects,
// gets registered unauthenticated, presents a credential exactly once, and
// from then on receives targeted, role, and broadcast messages. Background
// loops push heartbeats, purge silent sessions, and redeliver messages that
// required an acknowledgment but never got one, with more retries for
// urgent priorities.
//
// The hub is transport-agnostic: it only sees the Transport interface, and
// the websocket adapter wires real connections into it.
package notifier
