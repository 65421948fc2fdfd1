package infrastructure

import (
	"go.uber.org/fx"

	"github.com/royak47/autofor/internal/infrastructure/cache"
	"github.com/royak47/autofor/internal/infrastructure/database"
	httpfx "github.com/royak47/autofor/internal/infrastructure/http"
	"github.com/royak47/autofor/internal/infrastructure/kafka"
	"github.com/royak47/autofor/internal/infrastructure/logger"
	"github.com/royak47/autofor/internal/infrastructure/metrics"
	"github.com/royak47/autofor/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	cache.Module,
	metrics.Module,
	telegram.Module,
	kafka.Module,
	httpfx.Module,
)
