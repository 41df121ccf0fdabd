// Package models defines the domain entities shared by the comix client.
//
// # Comics
//
// [Comic] is the unit tracked across the user's library. A comic is either persisted (it carries a
// server-assigned [Comic.ID]) or local (ID is zero, identified only by title and author).
// Comics are immutable from the client's perspective; the client never edits title, author or genre.
//
// # Statuses
//
// [Status] names one of the four mutually exclusive library lists: [Favorite], [Reading], [Completed] and [Trash].
// [Statuses] fixes their display order and [Status.Index] maps each to a slot in a fixed-size table.
//
// # Identity
//
// [Key] derives the deduplication key used by every list:
//   - "id:<id>" when the server id is known
//   - "ta:<title>|<author>" otherwise
//
// # Drag payloads
//
// [DragPayload] is the small record passed between list views when a card is grabbed and dropped.
// It travels as JSON text and [ParseDragPayload] rejects anything malformed.
package models
