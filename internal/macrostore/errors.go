package macrostore

import "errors"

// Sentinel errors for the macro store.
var (
	// ErrOutOfSpace is returned when the region cannot hold the requested
	// append while keeping room for the log terminator. Nothing is
	// committed when it is returned.
	ErrOutOfSpace = errors.New("macrostore: out of space")

	// ErrNotFound is returned by Play when no macro matches the trigger.
	ErrNotFound = errors.New("macrostore: macro not found")

	// ErrAlreadyRecording is returned when a recording is started, or a
	// compaction requested, while a recording is in progress.
	ErrAlreadyRecording = errors.New("macrostore: already recording")

	// ErrNotRecording is returned when a recording call arrives outside a
	// recording.
	ErrNotRecording = errors.New("macrostore: not recording")
)

// errCorrupt reports a log that violates the framing invariants. At open
// time it triggers reinitialization; afterwards the store trusts its own
// mutation paths, so seeing it mid-operation means external corruption.
var errCorrupt = errors.New("macrostore: inconsistent log")
