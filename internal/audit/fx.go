package audit

import (
	"github.com/mokaihq/essential-eight/internal/audit/repository"
	"github.com/mokaihq/essential-eight/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
