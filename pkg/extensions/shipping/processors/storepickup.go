package processors

import (
	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/extensions/shipping/storepickup"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// StorePickupPreProcessor redirects local orders to the store pickup
// backend. The pipeline applies the redirect only when the merchant has
// the storepickup module configured and active; otherwise the prior
// selection stands.
type StorePickupPreProcessor struct{}

func (p *StorePickupPreProcessor) GetModuleCode() string {
	return "storepickup-redirect"
}

func (p *StorePickupPreProcessor) PrePostProcessShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, allModules []*types.IntegrationModule, locale string) error {
	if delivery.CountryCode == store.CountryCode && delivery.City != "" && delivery.City == store.City {
		quote.CurrentShippingModule = storepickup.ModuleCode
	}
	return nil
}
