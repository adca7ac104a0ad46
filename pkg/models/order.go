package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/migration"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Well-known order total line codes.
const (
	OrderTotalCodeSubtotal = "subtotal"
	OrderTotalCodeTax      = "tax"
	OrderTotalCodeShipping = "shipping"
	OrderTotalCodeRefund   = "refund"
	OrderTotalCodeTotal    = "total"
)

const OrderTotalRefundSortOrder = 100

type Order struct {
	ID       uint              `gorm:"primaryKey"`
	StoreID  uint              `gorm:"index"`
	Status   types.OrderStatus `gorm:"size:20"`
	Currency string            `gorm:"size:10"`
	Total    decimal.Decimal   `gorm:"type:decimal(19,4)"`

	CustomerEmail      string `gorm:"size:100"`
	PaymentModuleCode  string `gorm:"size:50"`
	ShippingModuleCode string `gorm:"size:50"`

	Totals  []OrderTotal         `gorm:"foreignKey:OrderID"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) TableName() string {
	return "ac_orders"
}

// TotalLine returns the order's total line for a well-known code, nil
// when the ledger has no such line.
func (o *Order) TotalLine(code string) *OrderTotal {
	for i := range o.Totals {
		if o.Totals[i].Code == code {
			return &o.Totals[i]
		}
	}
	return nil
}

// OrderTotal 订单金额明细行(小计/税费/运费/退款/合计)
type OrderTotal struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"index"`
	Code      string          `gorm:"size:30;index"`
	Title     string          `gorm:"size:100"`
	Module    string          `gorm:"size:50"`
	Value     decimal.Decimal `gorm:"type:decimal(19,4)"`
	SortOrder int
}

func (t *OrderTotal) TableName() string {
	return "ac_order_totals"
}

// OrderStatusHistory 订单状态流水,只追加
type OrderStatusHistory struct {
	ID        uint              `gorm:"primaryKey"`
	OrderID   uint              `gorm:"index"`
	Status    types.OrderStatus `gorm:"size:20"`
	Comments  string            `gorm:"size:255"`
	DateAdded time.Time
}

func (h *OrderStatusHistory) TableName() string {
	return "ac_order_status_history"
}

func init() {
	migration.RegisterAutoMigrateModels(&Order{}, &OrderTotal{}, &OrderStatusHistory{})
}
