package database

import (
	"gorm.io/gorm"

	"github.com/flaboy/aira-checkout/pkg/migration"
)

var db *gorm.DB

// Init stores the host application's gorm handle and migrates
// every registered model.
func Init(d *gorm.DB) error {
	db = d
	return migration.AutoMigrate(d)
}

func Database() *gorm.DB {
	return db
}
