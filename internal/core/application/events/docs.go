// Package events is the glue between store-confirmed order mutations and
// their derived side effects. Command handlers publish lifecycle events;
// the router relocates orders in the priority queue cache, fans out
// notifications through the hub, and republishes each event on the shared
// pub/sub channel for external subscribers.
package events
