package models

import (
	"time"

	"github.com/flaboy/aira-checkout/pkg/migration"
)

// MerchantConfiguration 每商户每模块族一条加密JSON配置
type MerchantConfiguration struct {
	ID      uint   `gorm:"primaryKey"`
	StoreID uint   `gorm:"index:idx_store_key,unique"`
	Key     string `gorm:"size:50;index:idx_store_key,unique"`
	Value   string `gorm:"type:text"` // encrypted blob

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *MerchantConfiguration) TableName() string {
	return "ac_merchant_configurations"
}

func init() {
	migration.RegisterAutoMigrateModels(&MerchantConfiguration{})
}
