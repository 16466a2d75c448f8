package compliance

import (
	"github.com/mokaihq/essential-eight/internal/compliance/repository"
	"github.com/mokaihq/essential-eight/internal/compliance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("compliance.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
