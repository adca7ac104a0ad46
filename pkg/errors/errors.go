package errors

import (
	"fmt"

	"github.com/flaboy/pin/usererrors"
)

// 支付相关错误
var (
	ErrRefundExceedsTotal = usererrors.New("payment.refund_exceeds_total", "Refund amount exceeds order total")
	ErrCardOwnerEmpty     = usererrors.New("payment.card_owner_empty", "Card holder name is required")
	ErrCardNumberInvalid  = usererrors.New("payment.card_number_invalid", "Credit card number is not valid")
	ErrCardExpiryInvalid  = usererrors.New("payment.card_expiry_invalid", "Credit card expiry date is not valid")
	ErrCardExpired        = usererrors.New("payment.card_expired", "Credit card is expired")
	ErrCardCCVInvalid     = usererrors.New("payment.card_ccv_invalid", "Credit card security code is not valid")
	ErrCardBrandUnknown   = usererrors.New("payment.card_brand_unknown", "Credit card type is not supported")
)

// 运费相关错误
var (
	ErrShippingCountryNotServed = usererrors.New("shipping.country_not_served", "No shipping to the selected country")
)

// ConfigurationError 商户配置问题 - 立即上抛,从不重试
type ConfigurationError struct {
	ModuleCode string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.ModuleCode == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error [%s]: %s", e.ModuleCode, e.Reason)
}

func NewConfiguration(moduleCode, reason string) error {
	return &ConfigurationError{ModuleCode: moduleCode, Reason: reason}
}

// IntegrationError 外部后端调用失败
type IntegrationError struct {
	ModuleCode string
	Err        error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration error [%s]: %v", e.ModuleCode, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

func NewIntegration(moduleCode string, err error) error {
	return &IntegrationError{ModuleCode: moduleCode, Err: err}
}
