// Package macrostore implements the persistent key-macro store.
//
// Macros are sequences of key-actions recorded so a single trigger
// key-action can later replay them. They live in a small, fixed,
// byte-addressable non-volatile region (erased value 0xFF) with no
// filesystem underneath: this package owns the record framing, linear
// lookup, tombstone deletion and in-place compaction of that region.
//
// # On-media layout
//
// The region starts with a five-byte header: the expected start address
// (big endian), the expected end address (big endian) and a format
// version byte. A mismatch on any of the three at open time means the
// region was written by a different build or never initialized, and the
// whole region is silently reinitialized to an empty log.
//
// After the header comes the log: contiguous, back-to-back records, each
// a type byte, a length byte (total physical record size including the
// two header bytes) and data. A valid macro record's data is the encoded
// trigger key-action followed by the encoded replacement actions; when
// the encoded data outgrows the 255-byte physical record cap it continues
// in immediately following continuation records. Deletion rewrites a
// record's type byte to a tombstone in place. The log is terminated by a
// single end marker whose type value equals the erased byte, so an
// erased tail is self-terminating.
//
// # Durability
//
// The store is deliberately not crash-safe: macros are transient
// convenience data. What it does guarantee is that the log is
// syntactically valid at every flush boundary. New macros and relocated
// compaction runs are published by writing their type byte last, so a
// partially written record is never observed as anything but absent.
//
// # Concurrency
//
// A store serves one logical execution context. The internal mutex makes
// individual calls atomic with respect to each other but recording,
// playback and compaction are not designed to interleave mid-operation;
// the caller keeps them structurally exclusive, as the keyboard firmware
// does.
package macrostore
