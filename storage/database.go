package storage

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"rental-manager-server/models"
)

var DB *gorm.DB

// InitializeDB connects to Postgres and migrates the shared state table.
// When DB_CONNECTION_STRING is unset the app runs in local-only mode and
// this returns nil.
func InitializeDB() *gorm.DB {
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Println("DB_CONNECTION_STRING not set, running in local snapshot mode")
		return nil
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	db.AutoMigrate(&models.AppStateRow{})

	DB = db
	return db
}
