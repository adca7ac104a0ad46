package ratetable

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/importer"
	"github.com/flaboy/aira-checkout/pkg/types"
)

const ModuleCode = "weightbased"

// RateBand 一条按目的国和最大重量分档的价格
type RateBand struct {
	CountryCode   string // "*" matches any destination
	MaxWeight     decimal.Decimal
	OptionCode    string
	OptionName    string
	Price         decimal.Decimal
	EstimatedDays string
}

// RateTable 重量分档计价后端,价格表由商户导入的价目单加载
type RateTable struct {
	mu    sync.RWMutex
	bands []RateBand
}

func (r *RateTable) Init() error {
	return nil
}

func (r *RateTable) GetModuleCode() string {
	return ModuleCode
}

func (r *RateTable) ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.bands) == 0 {
		return errs.NewConfiguration(ModuleCode, "no rate bands loaded")
	}
	return nil
}

func (r *RateTable) GetCustomModuleConfiguration(store *types.MerchantStore) (map[string]string, error) {
	return nil, nil
}

// SetBands replaces the whole table, used after a rate sheet import.
func (r *RateTable) SetBands(bands []RateBand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bands = bands
}

// LoadFromFile imports a rate sheet (CSV or Excel) and replaces the
// current table.
func (r *RateTable) LoadFromFile(path string) error {
	rows, err := importer.ReadRateSheet(path)
	if err != nil {
		return err
	}

	bands := make([]RateBand, 0, len(rows))
	for _, row := range rows {
		bands = append(bands, RateBand{
			CountryCode:   row.CountryCode,
			MaxWeight:     row.MaxWeight,
			OptionCode:    row.OptionCode,
			OptionName:    row.OptionName,
			Price:         row.Price,
			EstimatedDays: row.EstimatedDays,
		})
	}
	r.SetBands(bands)
	return nil
}

// GetShippingQuotes prices the cart's total shippable weight against
// the table: for each service level, the tightest band that still fits
// the weight wins.
func (r *RateTable) GetShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, locale string) ([]*types.ShippingOption, error) {
	totalWeight := decimal.Zero
	for _, pkg := range packages {
		totalWeight = totalWeight.Add(pkg.Weight.Mul(decimal.NewFromInt(int64(pkg.Quantity))))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := make(map[string]*RateBand)
	for i := range r.bands {
		band := &r.bands[i]
		if band.CountryCode != "*" && band.CountryCode != delivery.CountryCode {
			continue
		}
		if totalWeight.GreaterThan(band.MaxWeight) {
			continue
		}
		current, ok := best[band.OptionCode]
		if !ok || band.MaxWeight.LessThan(current.MaxWeight) {
			best[band.OptionCode] = band
		}
	}

	var options []*types.ShippingOption
	for _, band := range best {
		options = append(options, &types.ShippingOption{
			OptionCode:            band.OptionCode,
			OptionName:            band.OptionName,
			OptionPrice:           band.Price,
			EstimatedNumberOfDays: band.EstimatedDays,
			ShippingModuleCode:    ModuleCode,
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].OptionCode < options[j].OptionCode
	})
	return options, nil
}
