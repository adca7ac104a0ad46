package processors

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/flaboy/aira-checkout/pkg/config"
	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

const DistanceModuleCode = "shippingdistance"

// Quote information key written by the distance processor.
const QuoteInfoDistanceKM = "DISTANCE_KM"

// Integration keys read from the processor's own configuration.
const (
	keySurchargeDistance = "surcharge_distance"
	keySurchargeAmount   = "surcharge_amount"
)

// DistancePostProcessor geocodes the delivery address and records the
// origin-to-destination distance on the quote; deliveries beyond the
// configured distance get a handling surcharge. Option prices are never
// touched.
type DistancePostProcessor struct {
	client *resty.Client
}

func NewDistancePostProcessor() *DistancePostProcessor {
	return &DistancePostProcessor{client: resty.New()}
}

func (p *DistancePostProcessor) GetModuleCode() string {
	return DistanceModuleCode
}

type geocodeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *DistancePostProcessor) PrePostProcessShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, allModules []*types.IntegrationModule, locale string) error {
	// runs only for merchants that activated the module
	if cfg == nil || !cfg.Active {
		return nil
	}
	if len(quote.ShippingOptions) == 0 {
		return nil
	}
	if config.Config.Geocode.Endpoint == "" {
		slog.Warn("[ShippingDistance] Geocode endpoint not configured, skipping")
		return nil
	}

	originPoint, err := p.geocode(origin.Address, origin.City, origin.PostalCode, origin.CountryCode)
	if err != nil {
		return err
	}
	destPoint, err := p.geocode(delivery.Address, delivery.City, delivery.PostalCode, delivery.CountryCode)
	if err != nil {
		return err
	}

	distance := haversineKM(originPoint.Latitude, originPoint.Longitude, destPoint.Latitude, destPoint.Longitude)
	quote.SetInformation(QuoteInfoDistanceKM, fmt.Sprintf("%.1f", distance))

	surchargeDistance := cast.ToFloat64(cfg.Key(keySurchargeDistance))
	if surchargeDistance > 0 && distance > surchargeDistance {
		surcharge := decimal.NewFromFloat(cast.ToFloat64(cfg.Key(keySurchargeAmount)))
		quote.HandlingFees = quote.HandlingFees.Add(surcharge)
		slog.Info("[ShippingDistance] Distance surcharge applied",
			"distance_km", distance, "surcharge", surcharge.String())
	}
	return nil
}

func (p *DistancePostProcessor) geocode(address, city, postalCode, country string) (*geocodeResponse, error) {
	result := &geocodeResponse{}
	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"address":     address,
			"city":        city,
			"postal_code": postalCode,
			"country":     country,
			"api_key":     config.Config.Geocode.APIKey,
		}).
		SetResult(result).
		Get(config.Config.Geocode.Endpoint)
	if err != nil {
		return nil, errs.NewIntegration(DistanceModuleCode, err)
	}
	if resp.IsError() {
		return nil, errs.NewIntegration(DistanceModuleCode, fmt.Errorf("geocode request failed, status code: %d", resp.StatusCode()))
	}
	return result, nil
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
