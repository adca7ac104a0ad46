package registry

import (
	"encoding/json"
	"fmt"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Merchant configuration blob keys, one encrypted JSON document each.
const (
	KeyPaymentModules     = "PAYMENT_MODULES"
	KeyShippingModules    = "SHIPPING"
	KeyShippingConfig     = "SHIPPING_CONFIG"
	KeySupportedCountries = "SUPPORTED_CNTR"
)

// ConfigurationStore 商户配置存储 - 外部协作者,按商户按键读写不透明blob
type ConfigurationStore interface {
	Get(key string, store *types.MerchantStore) (string, error)
	Save(key string, store *types.MerchantStore, value string) error
	Delete(key string, store *types.MerchantStore) error
}

// Decrypter 存储blob的解密协作者,核心不持有加密实现
type Decrypter interface {
	Decrypt(blob string) (string, error)
}

// PlainDecrypter passes blobs through unchanged. Used when the host
// stores configuration unencrypted, and in tests.
type PlainDecrypter struct{}

func (PlainDecrypter) Decrypt(blob string) (string, error) { return blob, nil }

// Registry 模块注册表 - 解出商户启用的模块配置与可用模块目录
type Registry struct {
	Store     ConfigurationStore
	Decrypter Decrypter
}

func New(store ConfigurationStore, decrypter Decrypter) *Registry {
	return &Registry{Store: store, Decrypter: decrypter}
}

// ConfiguredModules decrypts and parses the store's module-family blob
// into a module-code keyed map. A blob that exists but cannot be
// decrypted or parsed is a ConfigurationError; silently returning an
// empty set here would disable checkout for a configured merchant.
func (r *Registry) ConfiguredModules(store *types.MerchantStore, key string) (map[string]*types.IntegrationConfiguration, error) {
	blob, err := r.Store.Get(key, store)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s configuration: %w", key, err)
	}

	modules := make(map[string]*types.IntegrationConfiguration)
	if blob == "" {
		return modules, nil
	}

	plain, err := r.Decrypter.Decrypt(blob)
	if err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to decrypt %s configuration: %v", key, err))
	}

	var configurations []*types.IntegrationConfiguration
	if err := json.Unmarshal([]byte(plain), &configurations); err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to parse %s configuration: %v", key, err))
	}

	for _, cfg := range configurations {
		modules[cfg.ModuleCode] = cfg
	}
	return modules, nil
}

// SupportedCountries returns the merchant's international shipping
// allowlist (ISO codes).
func (r *Registry) SupportedCountries(store *types.MerchantStore) ([]string, error) {
	blob, err := r.Store.Get(KeySupportedCountries, store)
	if err != nil {
		return nil, fmt.Errorf("failed to read supported countries: %w", err)
	}
	if blob == "" {
		return nil, nil
	}

	plain, err := r.Decrypter.Decrypt(blob)
	if err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to decrypt supported countries: %v", err))
	}

	var countries []string
	if err := json.Unmarshal([]byte(plain), &countries); err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to parse supported countries: %v", err))
	}
	return countries, nil
}

// ShippingConfiguration loads the merchant's shipping settings blob.
func (r *Registry) ShippingConfiguration(store *types.MerchantStore) (*types.ShippingConfiguration, error) {
	blob, err := r.Store.Get(KeyShippingConfig, store)
	if err != nil {
		return nil, fmt.Errorf("failed to read shipping configuration: %w", err)
	}

	cfg := &types.ShippingConfiguration{
		ShippingType:         types.ShippingTypeNational,
		ShippingOptionPolicy: types.ShippingOptionPolicyAll,
	}
	if blob == "" {
		return cfg, nil
	}

	plain, err := r.Decrypter.Decrypt(blob)
	if err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to decrypt shipping configuration: %v", err))
	}
	if err := json.Unmarshal([]byte(plain), cfg); err != nil {
		return nil, errs.NewConfiguration("", fmt.Sprintf("unable to parse shipping configuration: %v", err))
	}
	return cfg, nil
}
