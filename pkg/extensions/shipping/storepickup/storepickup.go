package storepickup

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/flaboy/aira-checkout/pkg/types"
)

const ModuleCode = "storepickup"

// StorePickup 门店自提后端 - 单一选项,价格由商户配置(通常为零)
type StorePickup struct{}

func (s *StorePickup) Init() error {
	return nil
}

func (s *StorePickup) GetModuleCode() string {
	return ModuleCode
}

func (s *StorePickup) ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error {
	return nil
}

func (s *StorePickup) GetCustomModuleConfiguration(store *types.MerchantStore) (map[string]string, error) {
	return nil, nil
}

func (s *StorePickup) GetShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, locale string) ([]*types.ShippingOption, error) {
	price := decimal.Zero
	if configured := cfg.Key("price"); configured != "" {
		price = decimal.NewFromFloat(cast.ToFloat64(configured))
	}

	name := cfg.Key("label")
	if name == "" {
		name = "Store pickup - " + store.Name
	}

	return []*types.ShippingOption{
		{
			OptionCode:            ModuleCode,
			OptionName:            name,
			OptionPrice:           price,
			EstimatedNumberOfDays: "0",
			ShippingModuleCode:    ModuleCode,
		},
	}, nil
}
