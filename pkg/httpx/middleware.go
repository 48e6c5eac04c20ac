package httpx

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain applies middlewares around h, first listed outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
