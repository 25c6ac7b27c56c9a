// Package notify delivers macro store change notifications.
//
// The store publishes an event when a macro is recorded, cleared, when a
// compaction pass completes, and when the storage region is
// reinitialized. Handlers subscribe with Subscribe, which returns an ID
// usable for later removal.
//
// Delivery is synchronous and in subscription order: the store runs in a
// single logical execution context, so there is no queue between
// publisher and handlers. Handlers must not call back into the store.
package notify
