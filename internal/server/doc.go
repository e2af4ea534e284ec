// Package server exposes the movie store and sync runs over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so a request with the wrong
// method gets 405 from the mux itself.
//
// # API
//
//	GET  /healthz         → liveness
//	GET  /movies          → stored movies (?order=title|inserted, ?limit=N)
//	GET  /movies/{title}  → one movie by exact title
//	GET  /runs            → recorded sync runs (?limit=N)
//	POST /sync            → run the pipeline once and return its report
//
// Errors are JSON objects with an "error" field. Store and upstream failures map to 502 when the source
// page could not be used and 500 otherwise.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
