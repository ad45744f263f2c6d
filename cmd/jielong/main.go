package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/jielong/internal/actionlog"
	"github.com/smallbiznis/jielong/internal/backup"
	"github.com/smallbiznis/jielong/internal/catalog"
	"github.com/smallbiznis/jielong/internal/clock"
	"github.com/smallbiznis/jielong/internal/config"
	"github.com/smallbiznis/jielong/internal/directory"
	"github.com/smallbiznis/jielong/internal/ledger"
	"github.com/smallbiznis/jielong/internal/migration"
	"github.com/smallbiznis/jielong/internal/reconcile"
	"github.com/smallbiznis/jielong/internal/server"
	"github.com/smallbiznis/jielong/internal/state"
	"github.com/smallbiznis/jielong/pkg/db"
	"github.com/smallbiznis/jielong/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		state.Module,
		actionlog.Module,

		// Functional domains
		catalog.Module,
		directory.Module,
		ledger.Module,
		reconcile.Module,
		backup.Module,

		// HTTP surface
		server.MetricsModule,
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
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
