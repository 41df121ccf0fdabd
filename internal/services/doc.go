// Package services implements clients for the ComicAI HTTP API.
//
// # Client
//
// [Client] holds the base URL and the session's bearer token. Requests are paced with a
// [rate.Limiter], tagged with an X-Request-ID header and authenticated through an
// [oauth2.StaticTokenSource] transport once [Client.SetToken] has been called.
// Non-2xx responses become [*APIError] values which wrap [shared.ErrAPIRequest].
//
// # Library
//
// [LibraryService] is the remote library gateway used by the library package:
//   - GET /library/{favorites,reading,completed,trash} (trash accepts ?q=)
//   - POST /library/{favorite,reading,complete,trash} with {"comic": ..., "comic_id": ...}
//   - DELETE /library/trash/{id}, where 404 counts as success
//
// # Auth and Recommendations
//
// [AuthService] covers login, registration, logout and password reset.
// [RecommendationService] covers the chat assistant and the popular and personalized feeds.
// Catalog records may carry non-numeric ids, which are kept as [models.Comic.SourceID].
package services
