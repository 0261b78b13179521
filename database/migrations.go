package database

import (
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/models"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
		&models.Submission{},
		&models.Withdrawal{},
		&models.Payment{},
		&models.Notification{},
		&models.CoinTransaction{},
		&models.Setting{},
		&models.RevokedToken{},
	}
}

// Migrate runs AutoMigrate for all models and seeds the settings row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	var count int64
	if err := db.Model(&models.Setting{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		def := models.DefaultSetting()
		return db.Create(&def).Error
	}
	return nil
}
