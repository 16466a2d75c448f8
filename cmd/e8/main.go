package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/mokaihq/essential-eight/internal/clock"
	"github.com/mokaihq/essential-eight/internal/config"
	"github.com/mokaihq/essential-eight/internal/migration"
	"github.com/mokaihq/essential-eight/internal/observability"
	"github.com/mokaihq/essential-eight/internal/server"
	"github.com/mokaihq/essential-eight/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema must be in place before the HTTP surface comes up.
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
