package http

import (
	"github.com/royak47/autofor/pkg/httputil"
)

// Router registers auth HTTP routes
type Router struct {
	handler *AuthHandler
}

// NewRouter creates a new auth router
func NewRouter(handler *AuthHandler) *Router {
	return &Router{handler: handler}
}

// RegisterRoutes registers auth routes on the /api group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/send-otp", r.handler.SendOTP)
	api.POST("/verify-otp", r.handler.VerifyOTP)
}
