package database

import (
	"fintrack-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RunMigrations creates or updates every table the service uses.
func RunMigrations(conn *gorm.DB) error {
	conn = conn.Set("gorm:auto_preload", false)

	tables := []interface{}{
		&models.User{},
		&models.Token{},
		&models.Blog{},
		&models.Comment{},
		&models.Like{},
		&models.Expense{},
		&models.Income{},
		&models.CardStatement{},
	}
	for _, table := range tables {
		if err := conn.AutoMigrate(table); err != nil {
			log.Error().Err(err).Msgf("Failed to migrate %T", table)
			return err
		}
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
