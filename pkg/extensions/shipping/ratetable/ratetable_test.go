package ratetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

func band(country string, maxWeight float64, code string, price float64) RateBand {
	return RateBand{
		CountryCode: country,
		MaxWeight:   decimal.NewFromFloat(maxWeight),
		OptionCode:  code,
		OptionName:  code,
		Price:       decimal.NewFromFloat(price),
	}
}

func quoteFor(t *testing.T, table *RateTable, country string, packages []types.PackageDetail) []*types.ShippingOption {
	t.Helper()
	options, err := table.GetShippingQuotes(
		&types.ShippingQuote{}, packages, decimal.Zero,
		&types.Delivery{CountryCode: country}, nil,
		&types.MerchantStore{}, nil, nil, nil, "en")
	require.NoError(t, err)
	return options
}

func TestGetShippingQuotes(t *testing.T) {
	table := &RateTable{}
	table.SetBands([]RateBand{
		band("US", 1, "std", 4.50),
		band("US", 5, "std", 8.00),
		band("US", 5, "express", 15.00),
		band("*", 10, "economy", 20.00),
		band("CA", 5, "std", 12.00),
	})

	t.Run("tightest fitting band wins per service level", func(t *testing.T) {
		packages := []types.PackageDetail{{Quantity: 1, Weight: decimal.NewFromFloat(0.8)}}
		options := quoteFor(t, table, "US", packages)

		require.Len(t, options, 3)
		// sorted by option code
		assert.Equal(t, "economy", options[0].OptionCode)
		assert.Equal(t, "express", options[1].OptionCode)
		assert.Equal(t, "std", options[2].OptionCode)
		assert.True(t, options[2].OptionPrice.Equal(decimal.NewFromFloat(4.50)))
	})

	t.Run("weight multiplies by quantity", func(t *testing.T) {
		packages := []types.PackageDetail{{Quantity: 4, Weight: decimal.NewFromFloat(0.5)}}
		options := quoteFor(t, table, "US", packages)

		var std *types.ShippingOption
		for _, o := range options {
			if o.OptionCode == "std" {
				std = o
			}
		}
		require.NotNil(t, std)
		// 2kg total falls out of the 1kg band into the 5kg one
		assert.True(t, std.OptionPrice.Equal(decimal.NewFromFloat(8.00)))
	})

	t.Run("overweight cart gets no options", func(t *testing.T) {
		packages := []types.PackageDetail{{Quantity: 3, Weight: decimal.NewFromFloat(4)}}
		options := quoteFor(t, table, "US", packages)
		assert.Empty(t, options)
	})

	t.Run("wildcard bands serve any destination", func(t *testing.T) {
		packages := []types.PackageDetail{{Quantity: 1, Weight: decimal.NewFromFloat(1)}}
		options := quoteFor(t, table, "FR", packages)

		require.Len(t, options, 1)
		assert.Equal(t, "economy", options[0].OptionCode)
	})

	t.Run("country bands are isolated", func(t *testing.T) {
		packages := []types.PackageDetail{{Quantity: 1, Weight: decimal.NewFromFloat(2)}}
		options := quoteFor(t, table, "CA", packages)

		require.Len(t, options, 2)
		var std *types.ShippingOption
		for _, o := range options {
			if o.OptionCode == "std" {
				std = o
			}
		}
		require.NotNil(t, std)
		assert.True(t, std.OptionPrice.Equal(decimal.NewFromFloat(12.00)))
	})
}

func TestValidateModuleConfiguration(t *testing.T) {
	table := &RateTable{}

	var cfgErr *errs.ConfigurationError
	require.ErrorAs(t, table.ValidateModuleConfiguration(nil, &types.MerchantStore{}), &cfgErr)

	table.SetBands([]RateBand{band("US", 1, "std", 4.50)})
	require.NoError(t, table.ValidateModuleConfiguration(nil, &types.MerchantStore{}))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.csv")
	sheet := "Country,Max Weight,Service,Service Name,Price,Days\n" +
		"us,1,std,Standard,4.50,3\n" +
		"us,5,std,Standard,8.00,3\n"
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o644))

	table := &RateTable{}
	require.NoError(t, table.LoadFromFile(path))

	packages := []types.PackageDetail{{Quantity: 1, Weight: decimal.NewFromFloat(0.5)}}
	options := quoteFor(t, table, "US", packages)
	require.Len(t, options, 1)
	assert.Equal(t, "Standard", options[0].OptionName)
	assert.Equal(t, "3", options[0].EstimatedNumberOfDays)
	assert.True(t, options[0].OptionPrice.Equal(decimal.NewFromFloat(4.50)))
}
