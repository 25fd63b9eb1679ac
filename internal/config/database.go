package config

import (
	"itinerary-api/internal/database"

	"github.com/sirupsen/logrus"
)

// ToConnectionConfig converts the sqlite store settings to database.ConnectionConfig
func (c *StoreConfig) ToConnectionConfig(logger *logrus.Logger) *database.ConnectionConfig {
	cfg := database.DefaultConnectionConfig()
	cfg.DatabasePath = c.SQLitePath
	cfg.AutoMigrate = GetEnvAsBool("SQLITE_AUTO_MIGRATE", true)
	if logger != nil {
		cfg.Logger = logger
	}
	return cfg
}
