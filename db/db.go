package db

import (
	"fmt"

	"subscription-api/models"
	"subscription-api/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and migrates the subscription tables.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to the database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	utils.LogSuccess("Database connection successful")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Subscription{},
		&models.PaymentLog{},
	)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}
