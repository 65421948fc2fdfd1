package http

import (
	"github.com/royak47/autofor/pkg/httputil"
)

// Router registers forwarding HTTP routes
type Router struct {
	handler *ForwardingHandler
}

// NewRouter creates a new forwarding router
func NewRouter(handler *ForwardingHandler) *Router {
	return &Router{handler: handler}
}

// RegisterRoutes registers forwarding routes on the /api group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/toggle-forwarding", r.handler.ToggleForwarding)
}
