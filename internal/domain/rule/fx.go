package rule

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	accountdeps "github.com/royak47/autofor/internal/domain/account/deps"
	rulehttp "github.com/royak47/autofor/internal/domain/rule/delivery/http"
	"github.com/royak47/autofor/internal/domain/rule/deps"
	"github.com/royak47/autofor/internal/domain/rule/repository/postgres"
	"github.com/royak47/autofor/internal/domain/rule/usecase/business"
	"github.com/royak47/autofor/internal/infrastructure/http/server"
	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

// Module provides rule domain components for fx DI
var Module = fx.Module("rule",
	fx.Provide(postgres.NewRepository),
	fx.Provide(NewRuleUseCaseFx),
	fx.Provide(NewRuleHandlerFx),
	fx.Provide(rulehttp.NewRouter),
	fx.Invoke(RegisterRoutes),
)

// NewRuleUseCaseFx creates a rule use case for fx DI
func NewRuleUseCaseFx(
	rules deps.RuleRepository,
	accounts accountdeps.AccountRepository,
	logger zerolog.Logger,
) deps.RuleService {
	return business.NewUseCase(rules, accounts, logger)
}

// NewRuleHandlerFx creates a rule handler for fx DI
func NewRuleHandlerFx(useCase deps.RuleService, mapper *pkgerrors.Mapper, logger zerolog.Logger) *rulehttp.RuleHandler {
	return rulehttp.NewRuleHandler(useCase, mapper, logger)
}

// RegisterRoutes registers rule routes on the server
func RegisterRoutes(server *server.Server, router *rulehttp.Router) {
	router.RegisterRoutes(server.API)
}
