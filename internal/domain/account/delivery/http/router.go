package http

import (
	"github.com/fasthttp/router"
)

// Router registers account-related HTTP routes
type Router struct {
	handler *HealthHandler
}

// NewRouter creates a new account router
func NewRouter(handler *HealthHandler) *Router {
	return &Router{handler: handler}
}

// RegisterRoutes registers account routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Handle)
}
