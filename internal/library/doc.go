// Package library keeps the four comic lists (favorites, reading, completed and trash) consistent
// with the ComicAI library service.
//
// # List Store
//
// [Store] holds one ordered list per [models.Status]. Entries are unique per identity key
// (see [models.Key]) and the most recently touched entry sits at the front. The Store is safe for
// concurrent use and publishes a [Snapshot] to subscribers after every mutation.
//
// # Reconciler
//
// [Reconciler] is the only writer of the Store during normal operation. It exposes
// AddComic, MoveComic and RemoveFromTrash, a bulk load of the four lists, and session binding.
// The behaviour of each operation depends on the selected [Strategy]:
//   - [PersistedLibrary] is used while a session token is present. Adds are persisted before
//     the canonical record is inserted; trash deletes are confirmed before the entry is removed.
//   - [EphemeralLibrary] is used without a token. Operations only touch local memory.
//
// Gateway failures never leave the Reconciler as errors. They are logged and reported to the
// optional hook installed with [WithFailureHook].
//
// A move removes the comic from its source list before the destination is persisted.
// If that persist fails the comic is gone from both lists until the next bulk load.
//
// # Trash Search
//
// [TrashSearch] runs a debounced remote search over the trash list and shadows the trash column
// with its results without touching the Store. Every query change bumps a sequence number and
// only the response for the latest sequence is applied.
package library
