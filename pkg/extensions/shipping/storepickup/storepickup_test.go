package storepickup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaboy/aira-checkout/pkg/types"
)

func quoteWith(t *testing.T, cfg *types.IntegrationConfiguration) *types.ShippingOption {
	t.Helper()
	s := &StorePickup{}
	options, err := s.GetShippingQuotes(&types.ShippingQuote{}, nil, decimal.Zero,
		&types.Delivery{}, nil, &types.MerchantStore{Name: "Downtown"}, cfg, nil, nil, "en")
	require.NoError(t, err)
	require.Len(t, options, 1)
	return options[0]
}

func TestGetShippingQuotes(t *testing.T) {
	t.Run("defaults to a free pickup option", func(t *testing.T) {
		option := quoteWith(t, &types.IntegrationConfiguration{})

		assert.Equal(t, ModuleCode, option.OptionCode)
		assert.True(t, option.OptionPrice.IsZero())
		assert.Equal(t, "Store pickup - Downtown", option.OptionName)
		assert.Equal(t, "0", option.EstimatedNumberOfDays)
	})

	t.Run("merchant price and label are honored", func(t *testing.T) {
		option := quoteWith(t, &types.IntegrationConfiguration{
			IntegrationKeys: map[string]string{"price": "2.50", "label": "Pick up in store"},
		})

		assert.True(t, option.OptionPrice.Equal(decimal.NewFromFloat(2.50)))
		assert.Equal(t, "Pick up in store", option.OptionName)
	})
}
