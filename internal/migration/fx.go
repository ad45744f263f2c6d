package migration

import (
	"github.com/smallbiznis/jielong/internal/state"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module migrates the schema before any store loads its state.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		return conn.AutoMigrate(&state.AppState{})
	}),
)
