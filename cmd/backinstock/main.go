package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/backinstock/internal/catalog"
	"github.com/smallbiznis/backinstock/internal/clock"
	"github.com/smallbiznis/backinstock/internal/config"
	"github.com/smallbiznis/backinstock/internal/events"
	"github.com/smallbiznis/backinstock/internal/marketing"
	"github.com/smallbiznis/backinstock/internal/migration"
	"github.com/smallbiznis/backinstock/internal/observability"
	"github.com/smallbiznis/backinstock/internal/restock"
	"github.com/smallbiznis/backinstock/internal/server"
	"github.com/smallbiznis/backinstock/internal/tenant"
	"github.com/smallbiznis/backinstock/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),

		tenant.Module,
		catalog.Module,
		marketing.Module,
		events.Module,
		restock.Module,
		server.Module,
	)
	app.Run()
}
