package moneyorder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

func configured() *types.IntegrationConfiguration {
	return &types.IntegrationConfiguration{
		ModuleCode:      ModuleCode,
		Active:          true,
		IntegrationKeys: map[string]string{"address": "PO Box 12, Portland OR"},
	}
}

func TestValidateModuleConfiguration(t *testing.T) {
	m := &MoneyOrder{}

	require.NoError(t, m.ValidateModuleConfiguration(configured(), &types.MerchantStore{}))

	var cfgErr *errs.ConfigurationError
	err := m.ValidateModuleConfiguration(&types.IntegrationConfiguration{ModuleCode: ModuleCode}, &types.MerchantStore{})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ModuleCode, cfgErr.ModuleCode)
}

func TestAuthorizeAndCapture(t *testing.T) {
	m := &MoneyOrder{}

	trx, err := m.AuthorizeAndCapture(&types.MerchantStore{}, &types.Customer{}, nil,
		decimal.NewFromFloat(25.50), &types.Payment{}, configured(), nil)
	require.NoError(t, err)

	assert.Equal(t, types.TransactionTypeAuthorizeCapture, trx.TransactionType)
	assert.True(t, trx.Amount.Equal(decimal.NewFromFloat(25.50)))
	assert.Equal(t, ModuleCode, trx.PaymentModuleCode)

	require.NoError(t, trx.ParseDetails())
	assert.Equal(t, "PO Box 12, Portland OR", trx.DetailEntries["REMIT_TO"])
	assert.NotEmpty(t, trx.DetailEntries["REFERENCE"])
}

func TestRefund(t *testing.T) {
	m := &MoneyOrder{}

	trx, err := m.Refund(true, &types.MerchantStore{}, nil, nil,
		decimal.NewFromFloat(10), configured(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.TransactionTypeRefund, trx.TransactionType)
	assert.True(t, trx.Amount.Equal(decimal.NewFromFloat(10)))
}
