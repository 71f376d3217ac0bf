// Package db contains the setup for the local ledger database
package db

import (
	"fmt"

	"bitwise74/gallery-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("database.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("database.dsn"))
	case "sqlite":
		dsn := viper.GetString("database.dsn")
		if dsn == "" {
			dsn = "gallery.db"
		}

		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("invalid database driver %q", viper.GetString("database.driver"))
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database, %w", err)
	}

	err = db.AutoMigrate(model.Stats{}, model.Link{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
