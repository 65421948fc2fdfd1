package http

import (
	"github.com/royak47/autofor/internal/infrastructure/constants"
	"github.com/royak47/autofor/pkg/httputil"
)

// Router registers rule HTTP routes
type Router struct {
	handler *RuleHandler
}

// NewRouter creates a new rule router
func NewRouter(handler *RuleHandler) *Router {
	return &Router{handler: handler}
}

// RegisterRoutes registers rule routes on the /api group
func (r *Router) RegisterRoutes(api *httputil.MiddlewareGroup) {
	api.POST("/rules", r.handler.CreateRule)
	api.GET("/rules/{"+constants.TelegramIDParam+"}", r.handler.ListRules)
}
