package database

import (
	"log"

	"github.com/cardwatch/cardwatch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the price snapshot archive and migrates its schema.
// The archive is optional; callers that skip Initialize leave DB nil and
// archive writes become no-ops.
func Initialize(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := DB.AutoMigrate(&models.PriceSnapshot{}); err != nil {
		return err
	}

	log.Printf("Price archive ready at %s", dbPath)
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
