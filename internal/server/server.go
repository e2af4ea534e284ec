package server

import "net/http"

// Middleware decorates a handler. Middleware registered on a [Router] runs outermost first.
type Middleware func(http.Handler) http.Handler

// Handler serves a fixed set of [http.ServeMux] patterns, e.g. "GET /movies".
type Handler interface {
	http.Handler
	Routes() []string
}

// Router mounts handlers behind a shared middleware chain.
type Router interface {
	http.Handler

	// Use appends middleware for handlers registered afterwards.
	Use(middleware ...Middleware)
	// Handle mounts handler at "METHOD path".
	Handle(method, path string, handler http.Handler)
	// Handler mounts every pattern of handler.
	Handler(handler Handler)
}
