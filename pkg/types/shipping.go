package types

import (
	"github.com/shopspring/decimal"
)

type ShippingType string

const (
	ShippingTypeNational      ShippingType = "NATIONAL"
	ShippingTypeInternational ShippingType = "INTERNATIONAL"
)

// ShippingOptionPolicy 报价选择策略
type ShippingOptionPolicy string

const (
	ShippingOptionPolicyHighest ShippingOptionPolicy = "HIGHEST"
	ShippingOptionPolicyLeast   ShippingOptionPolicy = "LEAST"
	ShippingOptionPolicyAll     ShippingOptionPolicy = "ALL"
)

// Shipping quote return codes surfaced to the storefront.
const (
	ShippingReturnCodeNoShippingToCountry = "NO_SHIPPING_TO_SELECTED_COUNTRY"
	ShippingReturnCodeNoModuleConfigured  = "NO_SHIPPING_MODULE_CONFIGURED"
	ShippingReturnCodeNoPostalCode        = "NO_POSTAL_CODE"
)

// ShippingOrigin 商户发货地 - 未启用时由店铺地址合成
type ShippingOrigin struct {
	Active        bool   `json:"active"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	StateProvince string `json:"state_province"`
	CountryCode   string `json:"country_code"`
}

// ShippingConfiguration 商户运费设置,来自配置存储的 SHIPPING blob
type ShippingConfiguration struct {
	ShippingType           ShippingType         `json:"shippingType"`
	FreeShippingEnabled    bool                 `json:"freeShippingEnabled"`
	OrderTotalFreeShipping decimal.Decimal      `json:"orderTotalFreeShipping"`
	FreeShippingType       ShippingType         `json:"freeShippingType"`
	ShippingOptionPolicy   ShippingOptionPolicy `json:"shippingOptionPolicy"`
	HandlingFees           decimal.Decimal      `json:"handlingFees"`
	Origin                 *ShippingOrigin      `json:"origin,omitempty"`
}

// PackageDetail 一件待运包裹
type PackageDetail struct {
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Weight   decimal.Decimal `json:"weight"`
	Price    decimal.Decimal `json:"price"`
}

// ShippingOption 后端返回的一条计价选项
// 管线只补齐展示文本与模块代码,从不改动价格。
type ShippingOption struct {
	ShippingQuoteOptionID uint            `json:"shipping_quote_option_id"`
	OptionCode            string          `json:"option_code"`
	OptionName            string          `json:"option_name"`
	OptionPrice           decimal.Decimal `json:"option_price"`
	OptionPriceText       string          `json:"option_price_text"`
	EstimatedNumberOfDays string          `json:"estimated_number_of_days"`
	ShippingModuleCode    string          `json:"shipping_module_code"`
}

// ShippingQuote 单次报价计算的可变累加器,整体不落库;
// 每个最终选项单独持久化为一条 Quote 记录。
type ShippingQuote struct {
	ShippingReturnCode     string            `json:"shipping_return_code"`
	Warnings               []string          `json:"warnings"`
	FreeShipping           bool              `json:"free_shipping"`
	FreeShippingAmount     decimal.Decimal   `json:"free_shipping_amount"`
	HandlingFees           decimal.Decimal   `json:"handling_fees"`
	ShippingOptions        []*ShippingOption `json:"shipping_options"`
	SelectedShippingOption *ShippingOption   `json:"selected_shipping_option"`
	CurrentShippingModule  string            `json:"current_shipping_module"`
	DeliveryAddress        *Delivery         `json:"delivery_address"`

	// 处理器之间传递的附加信息(如距离)
	QuoteInformation map[string]string `json:"quote_information,omitempty"`
}

func (q *ShippingQuote) AddWarning(warning string) {
	q.Warnings = append(q.Warnings, warning)
}

func (q *ShippingQuote) SetInformation(key, value string) {
	if q.QuoteInformation == nil {
		q.QuoteInformation = make(map[string]string)
	}
	q.QuoteInformation[key] = value
}

// QuoteContext 请求范围内的上下文,显式传入而不是线程局部状态
type QuoteContext struct {
	CartID   uint   `json:"cart_id"`
	ClientIP string `json:"client_ip"`
	Language string `json:"language"`
}
