package account

import (
	"go.uber.org/fx"

	"github.com/royak47/autofor/internal/domain/account/delivery/http"
	"github.com/royak47/autofor/internal/domain/account/repository/postgres"
	"github.com/royak47/autofor/internal/infrastructure/http/server"
)

// Module provides account domain components for fx DI
var Module = fx.Module("account",
	fx.Provide(
		postgres.NewRepository,
		http.NewHealthHandler,
		http.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers account HTTP routes on the server.
// The router is resolved first so the server's stop hook runs before the stores close.
func registerRoutes(router *http.Router, srv *server.Server) {
	router.RegisterRoutes(srv.Router)
}
