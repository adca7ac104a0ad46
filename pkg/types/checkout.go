package types

import (
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeInit             TransactionType = "INIT"
	TransactionTypeAuthorize        TransactionType = "AUTHORIZE"
	TransactionTypeCapture          TransactionType = "CAPTURE"
	TransactionTypeAuthorizeCapture TransactionType = "AUTHORIZECAPTURE"
	TransactionTypeRefund           TransactionType = "REFUND"
)

// ParseTransactionType maps a configured value to a transaction type;
// ok is false for anything it does not recognize.
func ParseTransactionType(value string) (TransactionType, bool) {
	switch TransactionType(value) {
	case TransactionTypeInit, TransactionTypeAuthorize, TransactionTypeCapture,
		TransactionTypeAuthorizeCapture, TransactionTypeRefund:
		return TransactionType(value), true
	}
	return "", false
}

type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusProcessed OrderStatus = "PROCESSED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

type PaymentType string

const (
	PaymentTypeCreditCard PaymentType = "CREDITCARD"
	PaymentTypeMoneyOrder PaymentType = "MONEYORDER"
	PaymentTypePayPal     PaymentType = "PAYPAL"
	PaymentTypeFree       PaymentType = "FREE"
)

// MerchantStore 商户店铺 - 结算编排所需的最小投影
type MerchantStore struct {
	ID           uint   `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	CountryCode  string `json:"country_code"`
	StoreAddress string `json:"store_address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	StateProvince string `json:"state_province"`
}

type Customer struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Delivery 收货地址快照
type Delivery struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	StateProvince string `json:"state_province"`
	CountryCode   string `json:"country_code"`
}

// Payment 一次支付请求的输入
type Payment struct {
	ModuleName      string          `json:"module_name"`
	PaymentType     PaymentType     `json:"payment_type"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentMeta     map[string]string `json:"payment_meta"`

	// 信用卡支付时填写
	CreditCard *CreditCard `json:"credit_card,omitempty"`
}

type CreditCard struct {
	CardOwner       string `json:"card_owner"`
	CardNumber      string `json:"card_number"`
	ExpirationMonth string `json:"expiration_month"`
	ExpirationYear  string `json:"expiration_year"`
	CCV             string `json:"ccv"`
}

// CartItem 购物车行项目 - 运费与支付编排共用
type CartItem struct {
	ProductID uint            `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Weight    decimal.Decimal `json:"weight"`
	Virtual   bool            `json:"virtual"` // virtual products never ship
}
