// Package repositories implements SQLite persistence for the signed-in session.
//
// The library lists are never stored locally; they live on the ComicAI service and are
// loaded into memory at start-up. The only local state is the current session.
//
// Key Implementations:
//   - [SessionRepository] : stores one session (token and user) and restores it at start-up
//
// Restoring checks that the stored token is JWT shaped and not expired. Malformed or expired
// tokens are deleted and reported as [shared.ErrMalformedSession] or [shared.ErrTokenExpired].
package repositories
