package pdf

import (
	"context"
	"io"

	"github.com/mokaihq/essential-eight/internal/report"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateExecutiveReport(ctx context.Context, r *report.ExecutiveReport) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
