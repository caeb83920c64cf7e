// Package services defines the [TuneSource] interface for tune archives and implements it for thesession.org.
//
// # The Session Implementation
//
// [SessionService] issues plain GET requests against the public JSON API:
//   - GET /tunes/search?[type=<type>&]sort=popular&format=json&perpage=<n>&page=<p>
//   - GET /tunes/{id}?format=json
//
// Every request carries a User-Agent header and passes through a [rate.Limiter]
// (unlimited unless configured). There are no retries; the caller decides what a failed
// request means.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : non-200 response
//   - [shared.ErrTuneNotFound] : 404 on a tune detail (also wraps ErrAPIRequest)
//   - [shared.ErrDecode] : body was not the expected JSON shape
//
// Transport failures are returned wrapped as "request failed".
package services
