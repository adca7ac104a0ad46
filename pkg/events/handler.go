package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/types"
)

type OrderCapturedEvent struct {
	OrderID       uint            `json:"order_id"`
	TransactionID uint            `json:"transaction_id"`
	ModuleCode    string          `json:"module_code"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CapturedAt    time.Time       `json:"captured_at"`
}

type OrderRefundedEvent struct {
	OrderID       uint            `json:"order_id"`
	TransactionID uint            `json:"transaction_id"`
	ModuleCode    string          `json:"module_code"`
	Amount        decimal.Decimal `json:"amount"`
	Partial       bool            `json:"partial"`
	RefundedAt    time.Time       `json:"refunded_at"`
}

type ShippingQuotedEvent struct {
	CartID     uint                    `json:"cart_id"`
	ModuleCode string                  `json:"module_code"`
	Options    []*types.ShippingOption `json:"options"`
	QuotedAt   time.Time               `json:"quoted_at"`
}

type EventHandler interface {
	OnOrderCaptured(event *OrderCapturedEvent) error
	OnOrderRefunded(event *OrderRefundedEvent) error
	OnShippingQuoted(event *ShippingQuotedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitOrderCaptured(event *OrderCapturedEvent) error {
	if handler != nil {
		return handler.OnOrderCaptured(event)
	}
	return nil
}

func EmitOrderRefunded(event *OrderRefundedEvent) error {
	if handler != nil {
		return handler.OnOrderRefunded(event)
	}
	return nil
}

func EmitShippingQuoted(event *ShippingQuotedEvent) error {
	if handler != nil {
		return handler.OnShippingQuoted(event)
	}
	return nil
}
