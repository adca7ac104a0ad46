package shipping

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/flaboy/aira-checkout/pkg/events"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/registry"
	"github.com/flaboy/aira-checkout/pkg/types"
)

type QuoteRepository interface {
	Create(quote *models.Quote) error
}

// Service 运费报价管线 - 解析商户物流配置,跑前/后处理器链,
// 调用计价后端并按选项落地报价记录
type Service struct {
	Registry *registry.Registry
	Quotes   QuoteRepository
}

func NewService(reg *registry.Registry, quotes QuoteRepository) *Service {
	return &Service{Registry: reg, Quotes: quotes}
}

// GetShippingQuote computes a quote for a cart. Failures inside the
// pipeline surface as one wrapped error; only the backend pricing call
// is allowed to fail softly, degrading the quote instead of aborting
// checkout.
func (s *Service) GetShippingQuote(qctx *types.QuoteContext, store *types.MerchantStore, delivery *types.Delivery, items []types.CartItem, language string) (*types.ShippingQuote, error) {
	quote, err := s.getShippingQuote(qctx, store, delivery, items, language)
	if err != nil {
		return nil, fmt.Errorf("shipping quote: %w", err)
	}
	return quote, nil
}

func (s *Service) getShippingQuote(qctx *types.QuoteContext, store *types.MerchantStore, delivery *types.Delivery, items []types.CartItem, language string) (*types.ShippingQuote, error) {
	// 1. preconditions; a missing postal code is a warning, not an abort
	if qctx == nil {
		return nil, errors.New("quote context is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if delivery == nil {
		return nil, errors.New("delivery address is required")
	}
	if len(items) == 0 {
		return nil, errors.New("products are required")
	}
	if language == "" {
		return nil, errors.New("language is required")
	}

	quote := &types.ShippingQuote{DeliveryAddress: delivery}
	if delivery.PostalCode == "" {
		quote.AddWarning("No postal code in delivery address")
		quote.ShippingReturnCode = types.ShippingReturnCodeNoPostalCode
	}

	shippingCfg, err := s.Registry.ShippingConfiguration(store)
	if err != nil {
		return nil, err
	}

	// 2. shipping origin: merchant's explicit origin when active, else
	// synthesized from the store address
	origin := resolveOrigin(shippingCfg, store)

	// 3. national/international eligibility gate
	if shippingCfg.ShippingType == types.ShippingTypeNational {
		if delivery.CountryCode != store.CountryCode {
			quote.ShippingReturnCode = types.ShippingReturnCodeNoShippingToCountry
			return quote, nil
		}
	} else if shippingCfg.ShippingType == types.ShippingTypeInternational {
		countries, err := s.Registry.SupportedCountries(store)
		if err != nil {
			return nil, err
		}
		if !containsCountry(countries, delivery.CountryCode) {
			quote.ShippingReturnCode = types.ShippingReturnCodeNoShippingToCountry
			return quote, nil
		}
	}

	// 4. resolve the first active configured module that is a pricing
	// backend, not a pre/post-processor
	modules, err := s.Registry.ConfiguredModules(store, registry.KeyShippingModules)
	if err != nil {
		return nil, err
	}

	var moduleName string
	var moduleCfg *types.IntegrationConfiguration
	for code, cfg := range modules {
		if !cfg.Active {
			continue
		}
		entry := registry.Module(code)
		if entry == nil || entry.Kind != types.ModuleKindShipping {
			continue
		}
		moduleName = code
		moduleCfg = cfg
		break
	}
	if moduleName == "" {
		quote.ShippingReturnCode = types.ShippingReturnCodeNoModuleConfigured
		return quote, nil
	}
	module := registry.Module(moduleName)
	backend := Get(moduleName)
	if backend == nil {
		quote.ShippingReturnCode = types.ShippingReturnCodeNoModuleConfigured
		return quote, nil
	}

	orderTotal := shippableOrderTotal(items)
	packages := buildPackages(items)

	// 5. free shipping short-circuits the whole pipeline: no backend
	// call, nothing persisted
	if shippingCfg.FreeShippingEnabled && orderTotal.GreaterThan(shippingCfg.OrderTotalFreeShipping) {
		if shippingCfg.FreeShippingType == types.ShippingTypeInternational ||
			(shippingCfg.FreeShippingType == types.ShippingTypeNational && delivery.CountryCode == store.CountryCode) {
			quote.FreeShipping = true
			quote.FreeShippingAmount = shippingCfg.OrderTotalFreeShipping
			return quote, nil
		}
	}

	allModules := registry.EligibleCatalog(store, types.ModuleKindShipping)
	quote.CurrentShippingModule = moduleName
	quote.HandlingFees = shippingCfg.HandlingFees

	// 6. pre-processors, in registration order; each may redirect the
	// module selection through quote.CurrentShippingModule
	for _, p := range preProcessors {
		if err := p.PrePostProcessShippingQuotes(quote, packages, orderTotal, delivery, origin, store, moduleCfg, module, shippingCfg, allModules, language); err != nil {
			return nil, err
		}
		if quote.CurrentShippingModule != "" && quote.CurrentShippingModule != moduleName {
			// honor the redirect only for a configured, active module;
			// otherwise keep the prior selection silently
			redirected := modules[quote.CurrentShippingModule]
			if redirected != nil && redirected.Active && Get(quote.CurrentShippingModule) != nil {
				moduleName = quote.CurrentShippingModule
				moduleCfg = redirected
				module = registry.Module(moduleName)
				backend = Get(moduleName)
			}
		}
	}

	// 7. backend invocation; errors degrade the quote instead of
	// failing checkout
	options, err := backend.GetShippingQuotes(quote, packages, orderTotal, delivery, origin, store, moduleCfg, module, shippingCfg, language)
	if err != nil {
		slog.Error("[ShippingService] Shipping backend failed, continuing without options",
			"module", moduleName, "error", err)
		options = nil
	}
	quote.ShippingOptions = options
	if delivery.PostalCode != "" && len(options) == 0 {
		quote.ShippingReturnCode = types.ShippingReturnCodeNoShippingToCountry
	}

	// 8. option decoration and selection policy
	if quote.ShippingOptions != nil {
		var selected *types.ShippingOption
		for _, option := range quote.ShippingOptions {
			option.ShippingModuleCode = moduleName
			option.OptionPriceText = formatPrice(store.Currency, option.OptionPrice)
			if option.OptionName == "" {
				option.OptionName = countryDisplayName(delivery.CountryCode, language)
			}

			if selected == nil {
				selected = option
			}
			switch shippingCfg.ShippingOptionPolicy {
			case types.ShippingOptionPolicyHighest:
				if option.OptionPrice.GreaterThan(selected.OptionPrice) {
					selected = option
				}
			case types.ShippingOptionPolicyLeast:
				if option.OptionPrice.LessThan(selected.OptionPrice) {
					selected = option
				}
			case types.ShippingOptionPolicyAll:
				// ALL keeps every option; the selected option still
				// tracks the cheapest one
				if option.OptionPrice.LessThan(selected.OptionPrice) {
					selected = option
				}
			}
		}
		quote.SelectedShippingOption = selected
		if shippingCfg.ShippingOptionPolicy != types.ShippingOptionPolicyAll && selected != nil {
			quote.ShippingOptions = []*types.ShippingOption{selected}
		}
	}

	// 9. post-processors, each with its own module/config pair looked
	// up by the processor's declared code
	for _, p := range postProcessors {
		processorModule := registry.Module(p.GetModuleCode())
		processorCfg := modules[p.GetModuleCode()]
		if err := p.PrePostProcessShippingQuotes(quote, packages, orderTotal, delivery, origin, store, processorCfg, processorModule, shippingCfg, allModules, language); err != nil {
			return nil, err
		}
	}

	// 10. persist one Quote record per final option
	for _, option := range quote.ShippingOptions {
		record := &models.Quote{
			CartID:             qctx.CartID,
			Module:             option.ShippingModuleCode,
			OptionCode:         option.OptionCode,
			OptionName:         option.OptionName,
			Price:              option.OptionPrice,
			FreeShipping:       quote.FreeShipping,
			DeliveryAddress:    delivery.Address,
			DeliveryCity:       delivery.City,
			DeliveryPostalCode: delivery.PostalCode,
			DeliveryCountry:    delivery.CountryCode,
			ClientIP:           qctx.ClientIP,
			QuoteDate:          time.Now(),
		}
		if option.EstimatedNumberOfDays != "" {
			days, err := cast.ToIntE(option.EstimatedNumberOfDays)
			if err != nil {
				slog.Warn("[ShippingService] Unparseable estimated days on shipping option",
					"option", option.OptionCode, "value", option.EstimatedNumberOfDays)
			} else {
				record.EstimatedDays = days
			}
		}
		if err := s.Quotes.Create(record); err != nil {
			return nil, err
		}
		option.ShippingQuoteOptionID = record.ID
	}

	if len(quote.ShippingOptions) > 0 {
		if err := events.EmitShippingQuoted(&events.ShippingQuotedEvent{
			CartID:     qctx.CartID,
			ModuleCode: moduleName,
			Options:    quote.ShippingOptions,
			QuotedAt:   time.Now(),
		}); err != nil {
			slog.Error("[ShippingService] Shipping quoted event handler failed", "cart", qctx.CartID, "error", err)
		}
	}

	return quote, nil
}

func resolveOrigin(cfg *types.ShippingConfiguration, store *types.MerchantStore) *types.ShippingOrigin {
	if cfg.Origin != nil && cfg.Origin.Active {
		return cfg.Origin
	}
	return &types.ShippingOrigin{
		Address:       store.StoreAddress,
		City:          store.City,
		PostalCode:    store.PostalCode,
		StateProvince: store.StateProvince,
		CountryCode:   store.CountryCode,
	}
}

// shippableOrderTotal sums price*quantity across the items that
// actually ship; virtual products are excluded.
func shippableOrderTotal(items []types.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Virtual {
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func buildPackages(items []types.CartItem) []types.PackageDetail {
	var packages []types.PackageDetail
	for _, item := range items {
		if item.Virtual {
			continue
		}
		packages = append(packages, types.PackageDetail{
			ItemName: item.Name,
			Quantity: item.Quantity,
			Weight:   item.Weight,
			Price:    item.Price,
		})
	}
	return packages
}

func containsCountry(countries []string, code string) bool {
	for _, c := range countries {
		if c == code {
			return true
		}
	}
	return false
}

func formatPrice(currency string, price decimal.Decimal) string {
	return currency + " " + price.StringFixed(2)
}
