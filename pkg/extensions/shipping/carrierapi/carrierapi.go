package carrierapi

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/flaboy/aira-checkout/pkg/config"
	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

const ModuleCode = "carrierapi"

// CarrierAPI 通过承运商报价HTTP接口计价的物流后端
type CarrierAPI struct{}

type rateRequest struct {
	OriginCountry      string        `json:"origin_country"`
	OriginPostalCode   string        `json:"origin_postal_code"`
	DestCountry        string        `json:"dest_country"`
	DestPostalCode     string        `json:"dest_postal_code"`
	DestCity           string        `json:"dest_city"`
	Packages           []ratePackage `json:"packages"`
	Currency           string        `json:"currency"`
}

type ratePackage struct {
	Weight   string `json:"weight"`
	Quantity int    `json:"quantity"`
}

type rateResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
	Rates []struct {
		ServiceCode   string `json:"service_code"`
		ServiceName   string `json:"service_name"`
		TotalPrice    string `json:"total_price"`
		EstimatedDays string `json:"estimated_days"`
	} `json:"rates"`
}

func (c *CarrierAPI) Init() error {
	// endpoint is validated lazily; merchants without the module
	// configured never hit it
	return nil
}

func (c *CarrierAPI) GetModuleCode() string {
	return ModuleCode
}

func (c *CarrierAPI) ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error {
	if config.Config.CarrierAPI.Endpoint == "" && cfg.Key("endpoint") == "" {
		return errs.NewConfiguration(ModuleCode, "missing carrier API endpoint")
	}
	return nil
}

func (c *CarrierAPI) GetCustomModuleConfiguration(store *types.MerchantStore) (map[string]string, error) {
	return map[string]string{"endpoint": config.Config.CarrierAPI.Endpoint}, nil
}

// GetShippingQuotes 调用承运商接口取回每个服务等级的价格
func (c *CarrierAPI) GetShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, locale string) ([]*types.ShippingOption, error) {
	endpoint := cfg.Key("endpoint")
	if endpoint == "" {
		endpoint = config.Config.CarrierAPI.Endpoint
	}
	if endpoint == "" {
		return nil, errs.NewConfiguration(ModuleCode, "missing carrier API endpoint")
	}

	request := rateRequest{
		OriginCountry:    origin.CountryCode,
		OriginPostalCode: origin.PostalCode,
		DestCountry:      delivery.CountryCode,
		DestPostalCode:   delivery.PostalCode,
		DestCity:         delivery.City,
		Currency:         store.Currency,
	}
	for _, pkg := range packages {
		request.Packages = append(request.Packages, ratePackage{
			Weight:   pkg.Weight.String(),
			Quantity: pkg.Quantity,
		})
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	// 创建 fasthttp 请求
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod("POST")
	req.Header.Set("X-Api-Key", config.Config.CarrierAPI.SecretKey)
	req.Header.Set("Content-Type", "application/json")
	req.SetBody(requestBody)

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}
	if resp.StatusCode() != 200 {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("rate request failed, status code: %d", resp.StatusCode()))
	}

	var rates rateResponse
	if err := json.Unmarshal(resp.Body(), &rates); err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}
	if rates.Code != 0 {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("rate request rejected: %s (code: %d)", rates.Error, rates.Code))
	}

	var options []*types.ShippingOption
	for _, rate := range rates.Rates {
		price, err := decimal.NewFromString(rate.TotalPrice)
		if err != nil {
			log.Printf("Skipping carrier rate %s with unparseable price %q", rate.ServiceCode, rate.TotalPrice)
			continue
		}
		options = append(options, &types.ShippingOption{
			OptionCode:            rate.ServiceCode,
			OptionName:            rate.ServiceName,
			OptionPrice:           price,
			EstimatedNumberOfDays: rate.EstimatedDays,
			ShippingModuleCode:    ModuleCode,
		})
	}
	return options, nil
}
