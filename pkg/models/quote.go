package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/migration"
)

// Quote 展示给买家的一条运费选项的持久化记录。
// 后端可能一次返回多个选项,门店和分析侧需要每个展示过的
// 选项各有一条记录,而不是每次请求一条。
type Quote struct {
	ID     uint `gorm:"primaryKey"`
	CartID uint `gorm:"index"`

	Module     string `gorm:"size:50"`
	OptionCode string `gorm:"size:50"`
	OptionName string `gorm:"size:100"`

	Price         decimal.Decimal `gorm:"type:decimal(19,4)"`
	FreeShipping  bool
	EstimatedDays int

	// 收货地址快照
	DeliveryAddress    string `gorm:"size:255"`
	DeliveryCity       string `gorm:"size:100"`
	DeliveryPostalCode string `gorm:"size:20"`
	DeliveryCountry    string `gorm:"size:3"`

	ClientIP  string `gorm:"size:45"`
	QuoteDate time.Time
}

func (q *Quote) TableName() string {
	return "ac_shipping_quotes"
}

func init() {
	migration.RegisterAutoMigrateModels(&Quote{})
}
