package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/migration"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Transaction 支付交易记录,按订单只追加,创建后不可变
type Transaction struct {
	ID                uint                  `gorm:"primaryKey"`
	OrderID           uint                  `gorm:"index"`
	TransactionType   types.TransactionType `gorm:"size:20"`
	TransactionDate   time.Time
	Amount            decimal.Decimal `gorm:"type:decimal(19,4)"`
	PaymentModuleCode string          `gorm:"size:50"`

	// 后端返回的键值明细,序列化存储
	Details string `gorm:"type:text"`

	// 解析后的明细,由交易历史解析器填充
	DetailEntries map[string]string `gorm:"-" json:"detail_entries,omitempty"`

	CreatedAt time.Time
}

func (t *Transaction) TableName() string {
	return "ac_transactions"
}

// SetDetails serializes the backend's key-value blob for storage.
func (t *Transaction) SetDetails(details map[string]string) error {
	if len(details) == 0 {
		t.Details = ""
		return nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	t.Details = string(data)
	return nil
}

// ParseDetails deserializes the stored blob into DetailEntries.
func (t *Transaction) ParseDetails() error {
	if t.Details == "" {
		t.DetailEntries = nil
		return nil
	}
	entries := make(map[string]string)
	if err := json.Unmarshal([]byte(t.Details), &entries); err != nil {
		return err
	}
	t.DetailEntries = entries
	return nil
}

func init() {
	migration.RegisterAutoMigrateModels(&Transaction{})
}
